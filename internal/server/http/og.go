package http

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ottocollect/ottocollect/internal/common"
	"github.com/ottocollect/ottocollect/internal/imageurl"
	"github.com/ottocollect/ottocollect/internal/server/models"
)

//go:embed templates/og.html
var ogSource string

var ogTemplate = template.Must(template.New("og").Parse(ogSource))

var crawlerAgents = []string{
	"facebookexternalhit", "facebot", "twitterbot", "linkedinbot", "whatsapp",
	"telegrambot", "slackbot", "discordbot", "pinterest", "skypeuripreview",
	"redditbot", "applebot", "googlebot", "bingbot", "vkshare", "embedly",
}

func isCrawler(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, bot := range crawlerAgents {
		if strings.Contains(ua, bot) {
			return true
		}
	}
	return false
}

type ogPage struct {
	Title       string
	Description string
	Image       string
	URL         string
}

func banknoteURL(siteURL, id string) string {
	return siteURL + "/catalog-banknote/" + url.PathEscape(id)
}

func banknotePage(b *models.Banknote, siteURL string) ogPage {
	title := fmt.Sprintf("%s %s", b.FaceValue, b.Country)
	if b.ExtendedPick != "" {
		title += " (" + b.ExtendedPick + ")"
	}

	parts := []string{}
	for _, p := range []string{b.SultanName, b.GregorianYear, b.Category, b.Type} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	desc := "Ottoman banknote on OttoCollect"
	if len(parts) > 0 {
		desc = strings.Join(parts, " · ") + ". " + desc
	}

	var pictures []string
	for _, u := range b.Images.All() {
		if u != "" {
			pictures = append(pictures, u)
		}
	}
	image := imageurl.GetFirstImageURL(pictures)
	if strings.HasPrefix(image, "/") {
		image = siteURL + image
	}

	return ogPage{
		Title:       title,
		Description: desc,
		Image:       image,
		URL:         banknoteURL(siteURL, b.ID),
	}
}

// ogBanknote serves link previews: social crawlers get a page carrying Open
// Graph tags, browsers are told where the real page lives.
func (h *Handler) ogBanknote(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing banknote id"})
		return
	}

	siteURL := strings.TrimRight(h.opts.SiteURL, "/")
	if !isCrawler(c.GetHeader("User-Agent")) {
		c.JSON(http.StatusOK, gin.H{"message": "Not a crawler", "redirect": banknoteURL(siteURL, id)})
		return
	}

	b, err := h.svc.Banknotes.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Banknote not found"})
			return
		}
		h.fail(c, "load banknote", err)
		return
	}

	page := banknotePage(b, siteURL)
	var buf bytes.Buffer
	if err := ogTemplate.Execute(&buf, page); err != nil {
		h.fail(c, "render preview", err)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
