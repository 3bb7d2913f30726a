package main

var (
	HeroTitle       = `Forging Digital Magic,`
	HeroTitleAccent = `One Experience at a Time`

	HeroSubtitle = `At Arcana Code Forges, we blend the art of code with the science of
	innovation to create captivating digital solutions. From empowering startups to enhancing
	established brands, our mission is to craft experiences that resonate and inspire. As a team
	of full-stack developers and dedicated mentors, we’re here to guide you through a journey of
	growth and transformation. Whether you’re seeking tailored web solutions or looking to develop
	the next wave of coding talent, let’s bring your vision to life with purpose and precision.`

	OriginsSubtitle = `Place your hand upon the crystal, stir the mist, and let a vision take form.`

	SpellbookDisclaimer = `Please be aware that many of the enchanted creations we’ve forged
	remain hidden by powerful non-disclosure agreements (NDAs) with clients and employers. These
	represent but a glimpse of our collective craft. If you wish to discuss the mysteries of our
	past work or have specific questions, feel free to summon us directly.`

	TestimonialsIntro = `Words, like runes, carry power. These are a few that were etched in
	recommendation by those who have walked the path alongside us.`
)

// navSections are the in-page anchors, in display order.
var navSections = []struct {
	ID    string
	Label string
}{
	{"home", "Home"},
	{"services", "Services"},
	{"techstack", "Tech Stack"},
	{"origins-section", "Origins"},
	{"portfolio", "Portfolio"},
}
