package api

// Locator addresses one page of a listing. An empty Locator means there is
// no such page.
type Locator = string

type Page struct {
	Info    Info        `json:"info"`
	Results []Character `json:"results"`
}

type Info struct {
	Count int     `json:"count"`
	Pages int     `json:"pages"`
	Next  *string `json:"next"`
	Prev  *string `json:"prev"`
}

// NextLocator returns the locator of the following page, or "" when this is
// the last one.
func (p *Page) NextLocator() Locator {
	if p == nil || p.Info.Next == nil {
		return ""
	}
	return *p.Info.Next
}

type Character struct {
	ID       int      `json:"id" toml:"id"`
	Name     string   `json:"name" toml:"name"`
	Status   string   `json:"status" toml:"status"` // Alive, Dead or unknown
	Species  string   `json:"species" toml:"species"`
	Type     string   `json:"type" toml:"type"`
	Gender   string   `json:"gender" toml:"gender"`
	Origin   Place    `json:"origin" toml:"origin"`
	Location Place    `json:"location" toml:"location"`
	Image    string   `json:"image" toml:"image"`
	Episode  []string `json:"episode" toml:"episode"`
	URL      string   `json:"url" toml:"url"`
	Created  string   `json:"created" toml:"created"`
}

type Place struct {
	Name string `json:"name" toml:"name"`
	URL  string `json:"url" toml:"url"`
}

// Filter narrows a listing server side. Empty fields are not sent.
type Filter struct {
	Name    string
	Status  string
	Species string
	Type    string
	Gender  string
}

type errorBody struct {
	Error string `json:"error"`
}
