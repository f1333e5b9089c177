package monokakido

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/yomikata/monokakido/errs"
	"github.com/yomikata/monokakido/format"
	"github.com/yomikata/monokakido/resource"
)

type mediaBackend int

const (
	mediaBackendNone mediaBackend = iota
	mediaBackendRSC
	mediaBackendNRSC
)

// Media is a lazy handle onto a dictionary's media blobs. Its backend is
// decided once, at dictionary-open time, by probing for an audio
// subdirectory and an index.nidx within it; the backing resource itself
// still opens lazily on first access. A dictionary with no audio
// subdirectory yields a disabled Media: every access fails with
// errs.ErrMissingMedia.
type Media struct {
	dir     string
	backend mediaBackend

	rsc  *resource.Rsc
	nrsc *resource.Nrsc
}

func probeMedia(dictContentsDir string) *Media {
	audioDir := filepath.Join(dictContentsDir, "audio")

	info, err := os.Stat(audioDir)
	if err != nil || !info.IsDir() {
		return &Media{backend: mediaBackendNone}
	}

	if _, err := os.Stat(filepath.Join(audioDir, "index.nidx")); err == nil {
		return &Media{dir: audioDir, backend: mediaBackendNRSC}
	}

	return &Media{dir: audioDir, backend: mediaBackendRSC}
}

func (m *Media) init() error {
	switch m.backend {
	case mediaBackendNone:
		return errs.ErrMissingMedia
	case mediaBackendNRSC:
		if m.nrsc != nil {
			return nil
		}
		n, err := resource.OpenNrsc(m.dir)
		if err != nil {
			return err
		}
		m.nrsc = n
		return nil
	default:
		if m.rsc != nil {
			return nil
		}
		r, err := resource.OpenRsc(m.dir, "audio")
		if err != nil {
			return err
		}
		m.rsc = r
		return nil
	}
}

// Get returns the media blob addressed by id. An NRSC-backed dictionary
// looks the id up by its string form; an RSC-backed one needs a numeric
// id, so a string MediaID is parsed as decimal first and fails with
// errs.ErrInvalidIndex when it isn't a number.
func (m *Media) Get(id format.MediaID) ([]byte, error) {
	if err := m.init(); err != nil {
		return nil, err
	}

	if m.backend == mediaBackendNRSC {
		_, data, err := m.nrsc.GetByID(id.String())
		return data, err
	}

	num := id.Num
	if id.Kind == format.MediaIDString {
		n, err := strconv.ParseUint(id.Str, 10, 32)
		if err != nil {
			return nil, errs.ErrInvalidIndex
		}
		num = uint32(n)
	}

	return m.rsc.Get(num)
}

// GetByIdx returns the (id, blob) pair at index position idx, for
// enumerating every media blob regardless of backend.
func (m *Media) GetByIdx(idx int) (format.MediaID, []byte, error) {
	if err := m.init(); err != nil {
		return format.MediaID{}, nil, err
	}

	if m.backend == mediaBackendNRSC {
		id, data, err := m.nrsc.GetByIdx(idx)
		if err != nil {
			return format.MediaID{}, nil, err
		}
		return format.StringMediaID(id), data, nil
	}

	id, data, err := m.rsc.GetByIdx(idx)
	if err != nil {
		return format.MediaID{}, nil, err
	}

	return format.NumericMediaID(id), data, nil
}

// Len returns the number of addressable media blobs.
func (m *Media) Len() (int, error) {
	if err := m.init(); err != nil {
		return 0, err
	}

	if m.backend == mediaBackendNRSC {
		return m.nrsc.Len(), nil
	}

	return m.rsc.Len(), nil
}

func (m *Media) close() error {
	if m.nrsc != nil {
		return m.nrsc.Close()
	}
	if m.rsc != nil {
		return m.rsc.Close()
	}

	return nil
}
