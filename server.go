package main

import (
	"context"
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/helasrebellion/arcana-forges/internal/carousel"
	"github.com/helasrebellion/arcana-forges/internal/config"
	"github.com/helasrebellion/arcana-forges/internal/contact"
	"github.com/helasrebellion/arcana-forges/internal/content"
	"github.com/helasrebellion/arcana-forges/internal/logging"
	"github.com/helasrebellion/arcana-forges/internal/orb"
	"github.com/helasrebellion/arcana-forges/internal/runes"
	"github.com/helasrebellion/arcana-forges/internal/sessions"
	"github.com/helasrebellion/arcana-forges/internal/store"
)

//go:embed templates/*.html static/*
var assets embed.FS

const (
	visitorCookie = "arcana_vid"
	maxGesture    = 512
	// footer mounts once the visitor is this close to the bottom
	footerMargin = 50
)

type app struct {
	cfg      config.Config
	logger   *zap.Logger
	store    *store.Store
	contact  *contact.Service
	sessions *sessions.Registry
	site     atomic.Pointer[content.Site]

	adminToken  string
	hashingSalt string

	// background store writes; drained before the store closes
	bg sync.WaitGroup
}

func newApp(cfg config.Config, logger *zap.Logger, st *store.Store, relay contact.Relay, site *content.Site) *app {
	a := &app{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		contact:  contact.NewService(relay, logger),
		sessions: sessions.NewRegistry(site.Origins),
	}
	a.site.Store(site)
	a.initAdminToken()
	return a
}

// background runs fn on its own goroutine with a bounded context.
func (a *app) background(timeout time.Duration, fn func(ctx context.Context)) {
	a.bg.Add(1)
	go func() {
		defer a.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		fn(ctx)
	}()
}

// wait blocks until every background task has finished.
func (a *app) wait() { a.bg.Wait() }

// setSite swaps the content served to new page loads and new visitors.
func (a *app) setSite(site *content.Site) {
	a.site.Store(site)
	a.sessions.SetEntries(site.Origins)
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"paragraphs": func(s string) []string { return strings.Split(s, "\n\n") },
		"inc":        func(i int) int { return i + 1 },
	}
}

func (a *app) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.GinLogger(a.logger, a.hashIP), a.visitorTrackingMiddleware())

	tmpl := template.Must(template.New("").Funcs(templateFuncs()).ParseFS(assets, "templates/*.html"))
	r.SetHTMLTemplate(tmpl)

	static, _ := fs.Sub(assets, "static")
	r.StaticFS("/static", http.FS(static))
	r.Static("/images", "./images")
	r.Static("/videos", "./videos")
	r.Static("/thumbnails", "./thumbnails")

	// Home page route
	r.GET("/", a.home)

	// HTMX Contact form endpoint - returns just the form HTML
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title":  "Send a raven",
			"values": contact.Submission{},
			"errors": contact.FieldErrors{},
			"focus":  "",
		})
	})
	r.POST("/contact", a.submitContact)

	origins := r.Group("/origins")
	origins.GET("", a.originsFragment)
	origins.POST("/next", a.originsAction(func(w *orb.Widget) { w.SelectNext() }))
	origins.POST("/prev", a.originsAction(func(w *orb.Widget) { w.SelectPrevious() }))
	origins.POST("/reveal", a.originsAction(func(w *orb.Widget) { w.InstantReveal() }))
	origins.POST("/key", a.originsKey)
	origins.POST("/gesture", a.originsGesture)

	r.GET("/carousel/stream", a.carouselStream)
	r.GET("/footer", a.footer)

	a.setupAdminRoutes(r)
	return r
}

func (a *app) home(c *gin.Context) {
	site := a.site.Load()
	h := a.visitor(c)
	// a reload abandons any gesture the previous page left captured
	h.Do(func(_ *orb.Widget, capture *orb.Capture) { capture.Release() })
	c.HTML(http.StatusOK, "index.html", gin.H{
		"nav":                 navSections,
		"heroTitle":           HeroTitle,
		"heroTitleAccent":     HeroTitleAccent,
		"heroSubtitle":        HeroSubtitle,
		"originsSubtitle":     OriginsSubtitle,
		"spellbookDisclaimer": SpellbookDisclaimer,
		"testimonialsIntro":   TestimonialsIntro,
		"site":                site,
		"testimonialRunes":    runes.Allocate(len(site.Testimonials), runes.Glyphs, nil),
		"origins":             h.View(),
	})
}

// visitor returns the orb session for the requesting browser, issuing a
// cookie on first contact.
func (a *app) visitor(c *gin.Context) *sessions.Handle {
	id, err := c.Cookie(visitorCookie)
	if err != nil || !sessions.Valid(id) {
		id = sessions.NewID()
		c.SetCookie(visitorCookie, id, 0, "/", "", false, true)
	}
	return a.sessions.Get(id)
}

func (a *app) originsFragment(c *gin.Context) {
	c.HTML(http.StatusOK, "origins.html", a.visitor(c).View())
}

func (a *app) originsAction(fn func(w *orb.Widget)) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := a.visitor(c)
		h.Do(func(w *orb.Widget, capture *orb.Capture) {
			capture.Release()
			fn(w)
		})
		c.HTML(http.StatusOK, "origins.html", h.View())
	}
}

type keyRequest struct {
	Key string `json:"key" form:"key" binding:"required"`
}

func (a *app) originsKey(c *gin.Context) {
	var req keyRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}

	h := a.visitor(c)
	var res orb.KeyResult
	h.Do(func(w *orb.Widget, capture *orb.Capture) {
		if req.Key == orb.KeyArrowLeft || req.Key == orb.KeyArrowRight {
			capture.Release()
		}
		res = w.HandleKey(req.Key)
	})
	c.JSON(http.StatusOK, gin.H{
		"handled":        res.Handled,
		"preventDefault": res.PreventDefault,
		"view":           h.View(),
	})
}

type gestureRequest struct {
	Events []orb.Event `json:"events" binding:"required"`
}

func (a *app) originsGesture(c *gin.Context) {
	var req gestureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "events are required"})
		return
	}
	if len(req.Events) > maxGesture {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too many events"})
		return
	}

	h := a.visitor(c)
	h.Do(func(_ *orb.Widget, capture *orb.Capture) {
		for _, ev := range req.Events {
			if !capture.Apply(ev) {
				a.logger.Debug("unknown gesture event", zap.String("type", string(ev.Type)))
			}
		}
	})
	c.JSON(http.StatusOK, h.View())
}

type slideEvent struct {
	Index int    `json:"index"`
	Src   string `json:"src"`
	Alt   string `json:"alt"`
}

// carouselStream pushes slide changes to one visitor. The timer lives as
// long as the connection.
func (a *app) carouselStream(c *gin.Context) {
	site := a.site.Load()
	car := carousel.New(site.Runes)
	if car.Len() == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	start, _ := strconv.Atoi(c.DefaultQuery("start", "0"))
	car.GoTo(start)

	slide := func(i int) slideEvent {
		img := site.Runes[i]
		return slideEvent{Index: i, Src: img.Src, Alt: img.Alt}
	}

	c.Header("Cache-Control", "no-cache")
	c.SSEvent("slide", slide(car.Current()))
	c.Writer.Flush()
	if car.Len() == 1 {
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	advanced := make(chan int)
	done := make(chan struct{})
	go func() {
		defer close(done)
		car.Run(ctx, a.cfg.Carousel.Interval, func(i int) {
			select {
			case advanced <- i:
			case <-ctx.Done():
			}
		})
	}()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case i := <-advanced:
			c.SSEvent("slide", slide(i))
			return true
		}
	})
	cancel()
	<-done
}

// footerVisible reports whether the scroll position is near the bottom.
func footerVisible(scrollTop, scrollHeight, clientHeight float64) bool {
	return scrollTop+clientHeight >= scrollHeight-footerMargin
}

func (a *app) footer(c *gin.Context) {
	if c.Query("height") != "" {
		top, _ := strconv.ParseFloat(c.Query("top"), 64)
		height, _ := strconv.ParseFloat(c.Query("height"), 64)
		client, _ := strconv.ParseFloat(c.Query("client"), 64)
		if !footerVisible(top, height, client) {
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.HTML(http.StatusOK, "footer.html", gin.H{
		"socials": a.site.Load().Socials,
		"year":    time.Now().Year(),
	})
}

func (a *app) submitContact(c *gin.Context) {
	sub := contact.Submission{
		Name:     c.PostForm("name"),
		Email:    c.PostForm("email"),
		Message:  c.PostForm("message"),
		Honeypot: c.PostForm("_gotcha"),
	}

	res := a.contact.Submit(c.Request.Context(), sub)
	if res.Outcome != contact.OutcomeSpam {
		trimmed := sub.Trimmed()
		err := a.store.RecordRaven(c.Request.Context(), store.Raven{
			Name:    trimmed.Name,
			Email:   trimmed.Email,
			Message: trimmed.Message,
			Outcome: string(res.Outcome),
		})
		if err != nil {
			a.logger.Error("Error recording raven", zap.Error(err))
		}
	}

	switch {
	case res.OK():
		c.HTML(http.StatusOK, "contact-success.html", gin.H{"success": res.Message})
	case res.Outcome == contact.OutcomeValidation:
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title":  "Send a raven",
			"values": sub,
			"errors": res.Fields,
			"focus":  res.Fields.First(),
		})
	default:
		c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": res.Message})
	}
}
