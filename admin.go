// admin.go - privacy-conscious admin system
package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const adminCookie = "admin_token"

// Initialize admin system with privacy considerations
func (a *app) initAdminToken() {
	a.adminToken = generateAdminToken()
	a.hashingSalt = generateAdminToken() // Use for IP hashing

	a.logger.Info("Admin access available at: /admin/login")
	if gin.Mode() == gin.DebugMode {
		a.logger.Debug("Admin token (dev only)", zap.String("token", a.adminToken))
	}
}

func generateAdminToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		panic("failed to generate admin token: " + err.Error())
	}
	return hex.EncodeToString(bytes)
}

// Hash IP address for privacy compliance (consistent per IP)
func (a *app) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + a.hashingSalt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

// Middleware to check admin authentication
func (a *app) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// untracked lists path prefixes the visitor metrics skip.
var untracked = []string{"/static/", "/images/", "/videos/", "/thumbnails/", "/admin/", "/favicon", "/privacy", "/origins", "/carousel/", "/footer"}

// Privacy-conscious visitor tracking middleware
func (a *app) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range untracked {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		// Track visitor with hashed IP in background
		hashedIP, userAgent := a.hashIP(c.ClientIP()), c.GetHeader("User-Agent")
		a.background(5*time.Second, func(ctx context.Context) {
			a.trackVisitorPrivacy(ctx, hashedIP, userAgent, path)
		})
		c.Next()
	}
}

func (a *app) trackVisitorPrivacy(ctx context.Context, hashedIP, userAgent, path string) {
	if err := a.store.RecordVisit(ctx, hashedIP, userAgent, path); err != nil {
		a.logger.Warn("Error recording visitor", zap.Error(err))
	}
}

// cleanupOldVisitorData removes visitor rows past the retention window.
func (a *app) cleanupOldVisitorData(ctx context.Context) {
	n, err := a.store.PurgeVisitorsBefore(ctx, time.Now().Add(-a.cfg.Database.Retention))
	if err != nil {
		a.logger.Error("Error cleaning up old visitor data", zap.Error(err))
		return
	}
	if n > 0 {
		a.logger.Info("Privacy cleanup: removed old visitor records", zap.Int64("rows", n))
	}
}

// Setup all admin routes
func (a *app) setupAdminRoutes(r *gin.Engine) {
	// Privacy policy route
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":     "Privacy Policy",
			"retention": a.cfg.Database.Retention.String(),
		})
	})

	// Admin login page
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	// Admin login handler
	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		if a.cfg.DefaultAdminCredentials() {
			a.logger.Warn("Using default admin credentials. Set ADMIN_USERNAME and ADMIN_PASSWORD.")
		}

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.cfg.Admin.Username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.cfg.Admin.Password)) == 1
		if userOK && passOK {
			// Set secure cookie (24 hours)
			c.SetCookie(adminCookie, a.adminToken, 3600*24, "/admin", "", false, true)
			a.logger.Info("Admin login successful", zap.String("client", a.hashIP(c.ClientIP())))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}

		a.logger.Warn("Failed admin login attempt", zap.String("client", a.hashIP(c.ClientIP())))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"error": "Invalid credentials",
		})
	})

	// Admin logout
	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		a.logger.Info("Admin logout", zap.String("client", a.hashIP(c.ClientIP())))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	// Protected admin routes group
	adminGroup := r.Group("/admin")
	adminGroup.Use(a.adminAuthMiddleware())

	// Admin dashboard
	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context())
		if err != nil {
			a.logger.Error("Error loading admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}

		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":    stats,
			"sessions": a.sessions.Len(),
		})
	})

	// Admin API endpoints for HTMX/AJAX
	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	// View ravens
	adminGroup.GET("/ravens", func(c *gin.Context) {
		ravens, err := a.store.RecentRavens(c.Request.Context(), 200)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load ravens",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-ravens.html", gin.H{
			"ravens": ravens,
		})
	})

	// View visitors
	adminGroup.GET("/visitors", func(c *gin.Context) {
		visitors, err := a.store.RecentVisitors(c.Request.Context(), 200)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	// Delete a raven
	adminGroup.DELETE("/ravens/:id", func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid raven id"})
			return
		}

		deleted, err := a.store.DeleteRaven(c.Request.Context(), id)
		if err != nil {
			a.logger.Error("Error deleting raven", zap.Int64("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete raven"})
			return
		}
		if !deleted {
			c.JSON(http.StatusNotFound, gin.H{"error": "Raven not found"})
			return
		}

		a.logger.Info("Raven deleted by admin", zap.Int64("id", id), zap.String("client", a.hashIP(c.ClientIP())))
		c.JSON(http.StatusOK, gin.H{"message": "Raven deleted successfully"})
	})

	// Privacy compliance endpoint
	adminGroup.POST("/privacy/delete-visitor-data", func(c *gin.Context) {
		a.background(time.Minute, a.cleanupOldVisitorData)
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup initiated"})
	})

	// Admin statistics export (for backups or analysis)
	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		a.logger.Info("Admin stats exported", zap.String("client", a.hashIP(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})
}
