package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	BaseURL          = "https://rickandmortyapi.com/api/character"
	DefaultUserAgent = "catalog-cli/1.0"
	DefaultTimeout   = 15 * time.Second
)

// nothingHere is what the API answers, with a 404, to a filter without matches.
const nothingHere = "There is nothing here"

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

type Client struct {
	restyClient *resty.Client
	baseURL     string
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = BaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	base := strings.TrimRight(opts.BaseURL, "/")

	client := resty.New()
	client.SetBaseURL(base)
	client.SetTimeout(opts.Timeout)
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetHeader("Accept", "application/json")
	return &Client{restyClient: client, baseURL: base}
}

// BaseLocator returns the unfiltered first page locator.
func (c *Client) BaseLocator() Locator {
	return c.baseURL
}

// FirstPage derives the first page locator for a filter. An empty filter
// yields the base listing locator.
func (c *Client) FirstPage(f Filter) Locator {
	return ListingLocator(c.baseURL, f)
}

// ListingLocator builds base?name=..&status=.. for the non-empty filter
// fields.
func ListingLocator(base string, f Filter) Locator {
	params := url.Values{}
	set := func(k, v string) {
		if v = strings.TrimSpace(v); v != "" {
			params.Set(k, v)
		}
	}
	set("name", f.Name)
	set("status", f.Status)
	set("species", f.Species)
	set("type", f.Type)
	set("gender", f.Gender)
	if len(params) == 0 {
		return base
	}

	u, err := url.Parse(base)
	if err != nil {
		return base + "?" + params.Encode()
	}
	q := u.Query()
	for k, v := range params {
		q[k] = v
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Page fetches one listing page. A filter that matches nothing comes back
// from the API as a 404, which is reported as an empty last page.
func (c *Client) Page(ctx context.Context, locator Locator) (*Page, error) {
	if locator == "" {
		return nil, fmt.Errorf("empty page locator")
	}

	resp, err := c.restyClient.R().SetContext(ctx).Get(locator)
	if err != nil {
		return nil, &NetworkError{URL: locator, Err: err}
	}

	if resp.IsError() {
		if resp.StatusCode() == http.StatusNotFound && isNothingHere(resp.Body()) {
			return &Page{Results: []Character{}}, nil
		}
		return nil, httpError(resp, locator)
	}

	var page Page
	if err := json.Unmarshal(resp.Body(), &page); err != nil {
		return nil, &DecodeError{URL: locator, Err: err}
	}
	if page.Results == nil {
		return nil, &DecodeError{URL: locator, Err: fmt.Errorf("missing results array")}
	}
	return &page, nil
}

// Character fetches a single record by id.
func (c *Client) Character(ctx context.Context, id int) (*Character, error) {
	path := "/" + strconv.Itoa(id)
	resp, err := c.restyClient.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, &NetworkError{URL: c.baseURL + path, Err: err}
	}
	if resp.IsError() {
		return nil, httpError(resp, c.baseURL+path)
	}

	var ch Character
	if err := json.Unmarshal(resp.Body(), &ch); err != nil {
		return nil, &DecodeError{URL: c.baseURL + path, Err: err}
	}
	if ch.ID == 0 {
		return nil, &DecodeError{URL: c.baseURL + path, Err: fmt.Errorf("record without id")}
	}
	return &ch, nil
}

func isNothingHere(body []byte) bool {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return false
	}
	return eb.Error == nothingHere
}

func httpError(resp *resty.Response, u string) error {
	msg := resp.Status()
	var eb errorBody
	if err := json.Unmarshal(resp.Body(), &eb); err == nil && eb.Error != "" {
		msg = eb.Error
	}
	return &HTTPError{StatusCode: resp.StatusCode(), URL: u, Message: msg}
}
