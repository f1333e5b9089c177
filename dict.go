// Package monokakido is a read-only reader for the monokakido dictionary
// container format: a keyword index (keystore), compressed text pages, and
// optional compressed media, composed under a descriptor-driven directory
// layout.
package monokakido

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yomikata/monokakido/errs"
	"github.com/yomikata/monokakido/keystore"
)

// defaultProductsRoot is the fixed platform directory under which every
// installed dictionary's product directory lives.
const defaultProductsRoot = "/Library/Application Support/AppStoreContent/jp.monokakido.Dictionaries/Products"

const dictionaryDirPrefix = "jp.monokakido.Dictionaries."

// dsProductContent is one entry of a descriptor's DSProductContents array.
type dsProductContent struct {
	DSContentDirectory string `json:"DSContentDirectory"`
}

// dictDescriptor is the shape of <NAME>.json under a dictionary's Contents
// directory.
type dictDescriptor struct {
	DSProductContents []dsProductContent `json:"DSProductContents"`
}

// Dictionary is an open handle onto one monokakido dictionary: its
// keystore is fully loaded at open time, while its Pages and Media
// façades open their backing resources lazily on first access.
type Dictionary struct {
	Name     string
	Keystore *keystore.Keystore
	Pages    *Pages
	Media    *Media
}

// List enumerates the fixed platform products directory and returns the
// name of every entry matching "jp.monokakido.Dictionaries.<NAME>", in
// directory-iteration order.
func List() ([]string, error) {
	return listAt(defaultProductsRoot)
}

func listAt(root string) ([]string, error) {
	dir, err := os.Open(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}
	defer dir.Close()

	// File.ReadDir keeps the directory's own iteration order; os.ReadDir
	// would sort the entries by name.
	entries, err := dir.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	var names []string
	for _, e := range entries {
		if name, ok := strings.CutPrefix(e.Name(), dictionaryDirPrefix); ok {
			names = append(names, name)
		}
	}

	return names, nil
}

// Open opens the installed dictionary named name, composing the standard
// platform base path.
func Open(name string) (*Dictionary, error) {
	path := filepath.Join(defaultProductsRoot, dictionaryDirPrefix+name)
	return OpenWithPath(path)
}

// OpenWithPath opens the dictionary rooted at path, deriving its name from
// path's trailing directory component: everything up to and including the
// last '.' is stripped.
func OpenWithPath(path string) (*Dictionary, error) {
	base := filepath.Base(path)
	name := base
	if i := strings.LastIndex(base, "."); i >= 0 {
		name = base[i+1:]
	}

	return openWithPathName(path, name)
}

func openWithPathName(path, name string) (*Dictionary, error) {
	descPath := filepath.Join(path, "Contents", name+".json")

	data, err := os.ReadFile(descPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrNoDictJSONFound, err)
	}

	var desc dictDescriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidDictJSON, err)
	}
	if len(desc.DSProductContents) == 0 {
		return nil, errs.ErrInvalidDictJSON
	}

	// The descriptor's DSProductContents is an array; the last entry is
	// authoritative, matching how the container's own tooling reads it.
	contentsDir := desc.DSProductContents[len(desc.DSProductContents)-1].DSContentDirectory

	root := filepath.Join(path, "Contents", contentsDir)

	ks, err := keystore.Open(filepath.Join(root, "key", "headword.keystore"))
	if err != nil {
		return nil, err
	}

	return &Dictionary{
		Name:     name,
		Keystore: ks,
		Pages:    newPages(filepath.Join(root, "contents")),
		Media:    probeMedia(root),
	}, nil
}

// Close releases every resource the dictionary has opened.
func (d *Dictionary) Close() error {
	var first error
	if err := d.Pages.close(); err != nil && first == nil {
		first = err
	}
	if err := d.Media.close(); err != nil && first == nil {
		first = err
	}

	return first
}
