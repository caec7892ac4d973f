package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kontak/internal/partners"
)

// PageController serves the static-ish pages: home, about and the 404 fallback.
type PageController struct {
	roster []partners.Partner
}

// NewPageController creates the controller for the informational pages.
func NewPageController(roster []partners.Partner) *PageController {
	return &PageController{roster: roster}
}

// Register attaches the page routes, including the fallback for unmatched paths.
func (pc *PageController) Register(r *gin.Engine) {
	r.GET("/", pc.home)
	r.GET("/about", pc.about)
	r.NoRoute(pc.notFound)
}

func (pc *PageController) home(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "index.html", gin.H{
		"Title": "Home Page",
		"Nama":  "hasrul",
	})
}

func (pc *PageController) about(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "about.html", gin.H{
		"Title":       "about",
		"NamaLengkap": "M Hasrul W.L.Y.D.N",
		"Partners":    pc.roster,
	})
}

func (pc *PageController) notFound(ctx *gin.Context) {
	ctx.HTML(http.StatusNotFound, "404.html", gin.H{
		"Title": "Page Not Found",
	})
}
