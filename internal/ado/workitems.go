package ado

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"qemcp/internal/api"
)

// maxBatchSize is the largest id list the work items endpoint accepts.
const maxBatchSize = 200

type workItemList struct {
	Count int             `json:"count"`
	Value []*api.WorkItem `json:"value"`
}

// GetWorkItem returns a work item with its relations.
func (c *Client) GetWorkItem(ctx context.Context, id int) (*api.WorkItem, error) {
	query := url.Values{"$expand": {"all"}}

	var wi api.WorkItem
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("wit/workitems/%d", id), query, "", nil, &wi); err != nil {
		return nil, err
	}
	return &wi, nil
}

// GetWorkItems returns the work items with the given ids in batches.
// Ids that no longer exist are left out.
func (c *Client) GetWorkItems(ctx context.Context, ids []int) ([]*api.WorkItem, error) {
	items := make([]*api.WorkItem, 0, len(ids))
	for start := 0; start < len(ids); start += maxBatchSize {
		end := min(start+maxBatchSize, len(ids))

		query := url.Values{
			"ids":         {joinIDs(ids[start:end])},
			"$expand":     {"all"},
			"errorPolicy": {"omit"},
		}
		var list workItemList
		if _, err := c.do(ctx, http.MethodGet, "wit/workitems", query, "", nil, &list); err != nil {
			return nil, err
		}
		for _, wi := range list.Value {
			if wi != nil {
				items = append(items, wi)
			}
		}
	}
	return items, nil
}

// CreateWorkItem creates a work item of the given type from JSON-Patch
// operations.
func (c *Client) CreateWorkItem(ctx context.Context, workItemType string, ops []api.PatchOperation) (*api.WorkItem, error) {
	path := "wit/workitems/$" + url.PathEscape(workItemType)

	var wi api.WorkItem
	if _, err := c.do(ctx, http.MethodPost, path, nil, contentTypeJSONPatch, ops, &wi); err != nil {
		return nil, err
	}
	return &wi, nil
}

// UpdateWorkItem applies JSON-Patch operations to a work item.
func (c *Client) UpdateWorkItem(ctx context.Context, id int, ops []api.PatchOperation) (*api.WorkItem, error) {
	var wi api.WorkItem
	if _, err := c.do(ctx, http.MethodPatch, fmt.Sprintf("wit/workitems/%d", id), nil, contentTypeJSONPatch, ops, &wi); err != nil {
		return nil, err
	}
	return &wi, nil
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
