package files

import (
	"net/url"
	"path"

	"github.com/LithiumKitmap/Site/internal/models"
)

// Resolver builds public URLs for stored product files, mirroring the
// /api/files/{collection}/{recordID}/{filename} scheme of the upstream
// file store.
type Resolver struct {
	BaseURL string
}

func (r Resolver) URL(collection string, recordID, filename string) string {
	if filename == "" {
		return ""
	}
	u, err := url.Parse(r.BaseURL)
	if err != nil {
		return ""
	}
	u.Path = path.Join(u.Path, "api", "files", collection, recordID, filename)
	return u.String()
}

func (r Resolver) Thumb(collection string, recordID, filename, size string) string {
	s := r.URL(collection, recordID, filename)
	if s == "" || size == "" {
		return s
	}
	return s + "?thumb=" + url.QueryEscape(size)
}

// ProductFileURL resolves the downloadable artifact for a product.
// Priority: explicit download URL, then plugin file, then map file, then
// empty string.
func (r Resolver) ProductFileURL(p *models.Product) string {
	if p.DownloadURL != "" {
		return p.DownloadURL
	}
	if p.PluginFile != "" {
		return r.URL("products", p.ID.String(), p.PluginFile)
	}
	if p.MapFile != "" {
		return r.URL("products", p.ID.String(), p.MapFile)
	}
	return ""
}
