package monokakido

import (
	"unicode/utf8"

	"github.com/yomikata/monokakido/errs"
	"github.com/yomikata/monokakido/resource"
)

// Pages is a lazy handle onto a dictionary's compressed text pages,
// backed by an RSC resource rooted at the dictionary's contents
// subdirectory. The backing resource opens on first access.
type Pages struct {
	dir string
	rsc *resource.Rsc
}

func newPages(dir string) *Pages {
	return &Pages{dir: dir}
}

func (p *Pages) init() error {
	if p.rsc != nil {
		return nil
	}

	rsc, err := resource.OpenRsc(p.dir, "contents")
	if err != nil {
		return err
	}

	p.rsc = rsc

	return nil
}

// Len returns the number of addressable pages.
func (p *Pages) Len() (int, error) {
	if err := p.init(); err != nil {
		return 0, err
	}

	return p.rsc.Len(), nil
}

// Get decompresses page pageID and decodes it as UTF-8 text. The returned
// string is a copy, safe to retain past the next call.
func (p *Pages) Get(pageID uint32) (string, error) {
	if err := p.init(); err != nil {
		return "", err
	}

	b, err := p.rsc.Get(pageID)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(b) {
		return "", errs.ErrUTF8
	}

	return string(b), nil
}

// GetByIdx returns the (pageID, text) pair at map-array position idx.
func (p *Pages) GetByIdx(idx int) (uint32, string, error) {
	if err := p.init(); err != nil {
		return 0, "", err
	}

	id, b, err := p.rsc.GetByIdx(idx)
	if err != nil {
		return 0, "", err
	}

	if !utf8.Valid(b) {
		return 0, "", errs.ErrUTF8
	}

	return id, string(b), nil
}

func (p *Pages) close() error {
	if p.rsc == nil {
		return nil
	}

	return p.rsc.Close()
}
