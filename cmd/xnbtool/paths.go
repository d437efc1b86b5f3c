package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samcharles93/xnacore/internal/content"
	"github.com/samcharles93/xnacore/internal/graphics"
	"github.com/samcharles93/xnacore/internal/logger"
)

// resolveAsset splits file into a content root and the asset name below
// it. An empty root means the file's own directory.
func resolveAsset(root, file string) (string, string, error) {
	file = filepath.Clean(file)
	root = strings.TrimSpace(root)
	if root == "" {
		root = filepath.Dir(file)
	}
	root = filepath.Clean(root)
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return "", "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", "", fmt.Errorf("%s is outside content root %s", file, root)
	}
	return root, content.NormalizeAssetName(filepath.ToSlash(rel)), nil
}

// openContent returns a manager rooted so that file is one of its assets.
func openContent(file string, log logger.Logger) (*content.Manager, string, error) {
	root, asset, err := resolveAsset(contentRoot, file)
	if err != nil {
		return nil, "", err
	}
	m := content.NewManager(os.DirFS(root), ".", graphics.NewDevice(), content.WithLogger(log))
	return m, asset, nil
}

func outputPath(in, out, suffix string) string {
	if out = strings.TrimSpace(out); out != "" {
		return filepath.Clean(out)
	}
	return strings.TrimSuffix(in, filepath.Ext(in)) + suffix
}
