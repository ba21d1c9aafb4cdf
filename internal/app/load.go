package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/specialistvlad/slidegridgo/internal/ctxlog"
	"github.com/specialistvlad/slidegridgo/internal/document"
)

// loadDatamodel reads the starting shape datamodel from a JSON file.
func loadDatamodel(ctx context.Context, path string) (*document.Datamodel, error) {
	var dm document.Datamodel
	if err := readJSON(path, &dm); err != nil {
		return nil, fmt.Errorf("failed to load datamodel: %w", err)
	}
	ctxlog.FromContext(ctx).Info("Datamodel loaded.", "path", path, "shapes", len(dm.Shapes))
	return &dm, nil
}

// loadLayout reads the starting layout tree from a JSON file and checks
// its structure.
func loadLayout(ctx context.Context, path string) (*document.Layout, error) {
	var l document.Layout
	if err := readJSON(path, &l); err != nil {
		return nil, fmt.Errorf("failed to load layout: %w", err)
	}
	if err := document.ValidateLayout(&l); err != nil {
		return nil, fmt.Errorf("failed to load layout %s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Info("Layout loaded.", "path", path, "layouts", len(document.LayoutIDs(&l)))
	return &l, nil
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
