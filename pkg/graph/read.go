package graph

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/cardgraph/pkg/errors"
)

// ReadFile reads a graph file. The format is taken from the file extension.
func ReadFile(path string) (Graph, error) {
	format, err := errors.NormalizeFormat(filepath.Ext(path))
	if err != nil {
		return Graph{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Graph{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, format)
}

// Read decodes a graph in the given format ("json", "yaml", "toml" or "dot")
// and validates it.
func Read(r io.Reader, format string) (Graph, error) {
	format, err := errors.NormalizeFormat(format)
	if err != nil {
		return Graph{}, err
	}

	var g Graph
	switch format {
	case "json":
		err = json.NewDecoder(r).Decode(&g)
	case "yaml":
		err = yaml.NewDecoder(r).Decode(&g)
		if err == io.EOF {
			err = nil
		}
	case "toml":
		_, err = toml.NewDecoder(r).Decode(&g)
	case "dot":
		var data []byte
		if data, err = io.ReadAll(r); err == nil {
			g, err = parseDOT(data)
		}
	}
	if err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", format)
	}

	if err := g.Validate(); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// Unmarshal decodes an in-memory graph.
func Unmarshal(data []byte, format string) (Graph, error) {
	return Read(bytes.NewReader(data), format)
}
