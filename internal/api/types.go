package api

import "github.com/samcharles93/xnacore/internal/content"

// InspectionRecord is a stored inspection of an uploaded container.
type InspectionRecord struct {
	ID        string `json:"id"`
	Object    string `json:"object"`
	CreatedAt int64  `json:"created_at"`
	content.Inspection
}

type InspectionList struct {
	Object string             `json:"object"`
	Data   []InspectionRecord `json:"data"`
}

type DeleteInspectionResp struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// AssetSummary describes an asset loaded through the content manager.
type AssetSummary struct {
	Name    string         `json:"name"`
	Object  string         `json:"object"`
	Type    string         `json:"type"`
	Details map[string]any `json:"details,omitempty"`
}
