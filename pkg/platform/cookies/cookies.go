// Package cookies gives request handlers a read-your-writes view of browser cookies.
package cookies

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"
)

// Jar reads the cookies a request carried and queues writes on the response.
// Reads observe writes queued earlier in the same request.
type Jar interface {
	Get(name string) (string, bool)
	Names() []string
	Set(name, value string, maxAge time.Duration) error
	// Delete expires name. An empty domain targets the host-only cookie.
	Delete(name, domain string) error
}

// ErrInvalidCookie is returned for writes the browser would reject.
var ErrInvalidCookie = errors.New("invalid cookie")

// Options apply to every cookie a jar writes.
type Options struct {
	Secure bool
}

type entry struct {
	value   string
	deleted bool
}

// HTTPJar implements Jar over a request/response pair.
type HTTPJar struct {
	w       http.ResponseWriter
	opts    Options
	values  map[string]string
	pending map[string]entry
}

// NewHTTPJar snapshots the request cookies. Duplicate names keep the first value.
func NewHTTPJar(w http.ResponseWriter, r *http.Request, opts Options) *HTTPJar {
	values := make(map[string]string)
	for _, c := range r.Cookies() {
		if _, ok := values[c.Name]; !ok {
			values[c.Name] = c.Value
		}
	}
	return &HTTPJar{w: w, opts: opts, values: values, pending: make(map[string]entry)}
}

func (j *HTTPJar) Get(name string) (string, bool) {
	if e, ok := j.pending[name]; ok {
		if e.deleted {
			return "", false
		}
		return e.value, true
	}
	v, ok := j.values[name]
	return v, ok
}

// Names lists the cookies currently visible, sorted.
func (j *HTTPJar) Names() []string {
	names := make([]string, 0, len(j.values)+len(j.pending))
	for name := range j.values {
		if e, ok := j.pending[name]; ok && e.deleted {
			continue
		}
		names = append(names, name)
	}
	for name, e := range j.pending {
		if _, seen := j.values[name]; !seen && !e.deleted {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

func (j *HTTPJar) Set(name, value string, maxAge time.Duration) error {
	c := j.cookie(name, value, "")
	c.MaxAge = int(maxAge.Seconds())
	c.Expires = time.Now().Add(maxAge)
	if err := j.write(c); err != nil {
		return err
	}
	j.pending[name] = entry{value: value}
	return nil
}

func (j *HTTPJar) Delete(name, domain string) error {
	c := j.cookie(name, "", domain)
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	if err := j.write(c); err != nil {
		return err
	}
	j.pending[name] = entry{deleted: true}
	return nil
}

func (j *HTTPJar) cookie(name, value, domain string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   domain,
		Secure:   j.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (j *HTTPJar) write(c *http.Cookie) error {
	if err := c.Valid(); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidCookie, c.Name, err)
	}
	http.SetCookie(j.w, c)
	return nil
}
