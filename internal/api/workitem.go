package api

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Work item field reference names.
const (
	FieldTitle            = "System.Title"
	FieldState            = "System.State"
	FieldWorkItemType     = "System.WorkItemType"
	FieldAreaPath         = "System.AreaPath"
	FieldIterationPath    = "System.IterationPath"
	FieldDescription      = "System.Description"
	FieldAssignedTo       = "System.AssignedTo"
	FieldTags             = "System.Tags"
	FieldSteps            = "Microsoft.VSTS.TCM.Steps"
	FieldPriority         = "Microsoft.VSTS.Common.Priority"
	FieldAutomationStatus = "Microsoft.VSTS.TCM.AutomationStatus"
)

// Work item relation types.
const (
	RelTestedBy   = "Microsoft.VSTS.Common.TestedBy-Forward"
	RelTests      = "Microsoft.VSTS.Common.TestedBy-Reverse"
	RelChild      = "System.LinkTypes.Hierarchy-Forward"
	RelParent     = "System.LinkTypes.Hierarchy-Reverse"
	RelRelated    = "System.LinkTypes.Related"
	RelAttachment = "AttachedFile"
	RelArtifact   = "ArtifactLink"
)

// WorkItemTypeTestCase is the work item type used for test cases.
const WorkItemTypeTestCase = "Test Case"

// WorkItem is a remote work item: requirement, test case, bug, etc.
type WorkItem struct {
	ID        int                `json:"id"`
	Rev       int                `json:"rev,omitempty"`
	URL       string             `json:"url,omitempty"`
	Fields    WorkItemFields     `json:"fields"`
	Relations []WorkItemRelation `json:"relations,omitempty"`
}

// WorkItemFields holds the well-known fields of a work item. Every other
// field reference name ends up in Extra.
type WorkItemFields struct {
	Title            string
	State            string
	WorkItemType     string
	AreaPath         string
	IterationPath    string
	Description      string
	Steps            string
	Priority         int
	AutomationStatus string
	AssignedTo       string
	Tags             string

	Extra map[string]interface{}
}

// MarshalJSON renders the fields keyed by reference name, the way the
// remote API returns them.
func (f WorkItemFields) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(f.Extra)+11)
	for k, v := range f.Extra {
		out[k] = v
	}
	putString := func(ref, v string) {
		if v != "" {
			out[ref] = v
		}
	}
	putString(FieldTitle, f.Title)
	putString(FieldState, f.State)
	putString(FieldWorkItemType, f.WorkItemType)
	putString(FieldAreaPath, f.AreaPath)
	putString(FieldIterationPath, f.IterationPath)
	putString(FieldDescription, f.Description)
	putString(FieldSteps, f.Steps)
	putString(FieldAutomationStatus, f.AutomationStatus)
	putString(FieldAssignedTo, f.AssignedTo)
	putString(FieldTags, f.Tags)
	if f.Priority != 0 {
		out[FieldPriority] = f.Priority
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a reference-name keyed field map.
func (f *WorkItemFields) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*f = WorkItemFields{}
	for ref, v := range raw {
		switch ref {
		case FieldTitle:
			f.Title = asString(v)
		case FieldState:
			f.State = asString(v)
		case FieldWorkItemType:
			f.WorkItemType = asString(v)
		case FieldAreaPath:
			f.AreaPath = asString(v)
		case FieldIterationPath:
			f.IterationPath = asString(v)
		case FieldDescription:
			f.Description = asString(v)
		case FieldSteps:
			f.Steps = asString(v)
		case FieldAutomationStatus:
			f.AutomationStatus = asString(v)
		case FieldTags:
			f.Tags = asString(v)
		case FieldAssignedTo:
			// Identity fields come back as objects.
			if m, ok := v.(map[string]interface{}); ok {
				f.AssignedTo = asString(m["displayName"])
			} else {
				f.AssignedTo = asString(v)
			}
		case FieldPriority:
			f.Priority = asInt(v)
		default:
			if f.Extra == nil {
				f.Extra = make(map[string]interface{})
			}
			f.Extra[ref] = v
		}
	}
	return nil
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

func asInt(v interface{}) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(t))
		return n
	}
	return 0
}

// WorkItemRelation is a link from one work item to another resource.
type WorkItemRelation struct {
	Rel        string                 `json:"rel"`
	URL        string                 `json:"url"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// TargetID returns the work item id at the end of the relation URL, or 0
// when the URL does not end in a numeric id (attachments, artifacts).
func (r WorkItemRelation) TargetID() int {
	url := strings.TrimRight(r.URL, "/")
	idx := strings.LastIndex(url, "/")
	if idx < 0 || idx == len(url)-1 {
		return 0
	}
	id, err := strconv.Atoi(url[idx+1:])
	if err != nil {
		return 0
	}
	return id
}

// RelatedIDs returns the target ids of all relations of the given type, in
// relation order.
func (w *WorkItem) RelatedIDs(rel string) []int {
	var ids []int
	for _, r := range w.Relations {
		if r.Rel != rel {
			continue
		}
		if id := r.TargetID(); id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// PatchOperation is one JSON-Patch entry used to create or update work items.
type PatchOperation struct {
	Op    string      `json:"op"`
	Path  string      `json:"path"`
	From  string      `json:"from,omitempty"`
	Value interface{} `json:"value,omitempty"`
}

// AddField returns an "add" operation for a field reference name.
func AddField(ref string, value interface{}) PatchOperation {
	return PatchOperation{Op: "add", Path: "/fields/" + ref, Value: value}
}

// ReplaceField returns a "replace" operation for a field reference name.
func ReplaceField(ref string, value interface{}) PatchOperation {
	return PatchOperation{Op: "replace", Path: "/fields/" + ref, Value: value}
}

// AddRelation returns an operation appending a relation to the work item.
func AddRelation(rel, url string) PatchOperation {
	return PatchOperation{
		Op:   "add",
		Path: "/relations/-",
		Value: WorkItemRelation{
			Rel: rel,
			URL: url,
		},
	}
}
