package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// MarshalScene serializes a Scene to pretty-printed JSON bytes.
func MarshalScene(s Scene) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// WriteScene writes a Scene as JSON to an io.Writer.
func WriteScene(s Scene, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return nil
}

// WriteSceneFile writes a Scene to a JSON file.
func WriteSceneFile(s Scene, path string) error {
	data, err := MarshalScene(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// UnmarshalScene deserializes JSON bytes into a Scene.
func UnmarshalScene(data []byte) (Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return Scene{}, fmt.Errorf("unmarshal scene: %w", err)
	}
	return s, nil
}
