package site

// ContentKind names the API content a page embeds.
type ContentKind int

const (
	ContentNone ContentKind = iota
	ContentCharcuterie
	ContentBlogList
)

// Page is a locale-sensitive site page.
type Page struct {
	ID      string
	Path    string
	Content ContentKind
}

// Pages lists every page served under each locale prefix.
var Pages = []Page{
	{ID: "inicio", Path: "/"},
	{ID: "carta", Path: "/carta"},
	{ID: "carta-menu", Path: "/carta-menu"},
	{ID: "menu", Path: "/menu"},
	{ID: "charcuteria", Path: "/charcuteria", Content: ContentCharcuterie},
	{ID: "blog", Path: "/blog", Content: ContentBlogList},
	{ID: "contacto", Path: "/contacto"},
	{ID: "reservas", Path: "/reservas"},
	{ID: "restaurantes", Path: "/restaurantes"},
	{ID: "nosotros", Path: "/nosotros"},
	{ID: "about", Path: "/about"},
	{ID: "gastronomia", Path: "/gastronomia"},
	{ID: "arenal", Path: "/arenal"},
	{ID: "bravo-murillo", Path: "/bravo-murillo"},
	{ID: "reina-victoria", Path: "/reina-victoria"},
	{ID: "san-bernardo", Path: "/san-bernardo"},
	{ID: "aviso-legal", Path: "/aviso-legal"},
	{ID: "politica-cookies", Path: "/politica-cookies"},
	{ID: "politica-privacidad", Path: "/politica-privacidad"},
	{ID: "politica-privacidad-cookies", Path: "/politica-privacidad-cookies"},
}

// blogPageID is the tracking id of blog detail pages.
const blogPageID = "blog-detalle"
