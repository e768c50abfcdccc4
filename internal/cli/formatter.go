package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"qemcp/internal/api"
	pkgstrings "qemcp/pkg/strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the supported output formats for CLI commands.
type OutputFormat string

const (
	// OutputFormatTable renders results as human-readable tables
	OutputFormatTable OutputFormat = "table"
	// OutputFormatJSON prints the raw JSON result, indented
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML converts the JSON result to YAML
	OutputFormatYAML OutputFormat = "yaml"
)

// ValidateOutputFormat rejects formats other than table, json and yaml.
func ValidateOutputFormat(format string) error {
	switch OutputFormat(format) {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (valid: table, json, yaml)", format)
	}
}

// Short names of the server tools, without the configured prefix.
const (
	ToolCompareTestCases = "testplan_compare_test_cases"
	ToolCreateTestCases  = "testplan_create_test_cases"
	ToolUpdateTestCase   = "testplan_update_test_case"
	ToolGetTestCases     = "testplan_get_test_cases"
	ToolCreatePlan       = "testplan_create_plan"
	ToolListSuites       = "testplan_list_suites"
	ToolConfigGet        = "config_get"
	ToolConfigReload     = "config_reload"
)

// Formatter renders tool results.
type Formatter struct {
	format    OutputFormat
	noHeaders bool
	out       io.Writer
}

// NewFormatter creates a formatter writing to out.
func NewFormatter(format OutputFormat, noHeaders bool, out io.Writer) *Formatter {
	if format == "" {
		format = OutputFormatTable
	}
	return &Formatter{format: format, noHeaders: noHeaders, out: out}
}

// Render prints the text result of tool in the configured format. Results
// that are not JSON are printed as they are.
func (f *Formatter) Render(tool, result string) error {
	if !json.Valid([]byte(result)) {
		_, err := fmt.Fprintln(f.out, result)
		return err
	}

	switch f.format {
	case OutputFormatJSON:
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(result), "", "  "); err != nil {
			return fmt.Errorf("failed to format as JSON: %w", err)
		}
		buf.WriteByte('\n')
		_, err := f.out.Write(buf.Bytes())
		return err
	case OutputFormatYAML:
		return f.renderYAML(result)
	case OutputFormatTable:
		return f.renderTable(tool, result)
	default:
		return fmt.Errorf("unsupported output format: %s", f.format)
	}
}

// renderYAML goes through a generic value so field names stay the JSON ones.
func (f *Formatter) renderYAML(result string) error {
	var data interface{}
	if err := json.Unmarshal([]byte(result), &data); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	out, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to format as YAML: %w", err)
	}
	_, err = f.out.Write(out)
	return err
}

func (f *Formatter) renderTable(tool, result string) error {
	switch tool {
	case ToolCompareTestCases:
		var res api.ComparisonResult
		if err := json.Unmarshal([]byte(result), &res); err != nil {
			return fmt.Errorf("failed to decode comparison result: %w", err)
		}
		f.renderComparison(&res)
	case ToolCreateTestCases:
		var res api.CreateTestCasesResult
		if err := json.Unmarshal([]byte(result), &res); err != nil {
			return fmt.Errorf("failed to decode creation result: %w", err)
		}
		f.renderCreated(&res)
	case ToolUpdateTestCase:
		var wi api.WorkItem
		if err := json.Unmarshal([]byte(result), &wi); err != nil {
			return fmt.Errorf("failed to decode work item: %w", err)
		}
		f.renderWorkItem(&wi)
	case ToolGetTestCases:
		var res struct {
			RequirementID int                    `json:"requirementId"`
			TestCases     []api.ExistingTestCase `json:"testCases"`
		}
		if err := json.Unmarshal([]byte(result), &res); err != nil {
			return fmt.Errorf("failed to decode test cases: %w", err)
		}
		f.renderExisting(res.RequirementID, res.TestCases)
	case ToolListSuites:
		var res struct {
			TestPlanID int             `json:"testPlanId"`
			Suites     []api.TestSuite `json:"suites"`
		}
		if err := json.Unmarshal([]byte(result), &res); err != nil {
			return fmt.Errorf("failed to decode suites: %w", err)
		}
		f.renderSuites(res.TestPlanID, res.Suites)
	case ToolCreatePlan:
		var plan api.TestPlan
		if err := json.Unmarshal([]byte(result), &plan); err != nil {
			return fmt.Errorf("failed to decode test plan: %w", err)
		}
		f.renderPlan(&plan)
	default:
		// Unknown shapes read better as YAML than as a raw JSON line.
		return f.renderYAML(result)
	}
	return nil
}

func (f *Formatter) newTable(headers ...interface{}) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetStyle(table.StyleLight)
	if !f.noHeaders && len(headers) > 0 {
		t.AppendHeader(table.Row(headers))
	}
	return t
}

func (f *Formatter) noItems(what string) {
	fmt.Fprintf(f.out, "%s\n", text.FgYellow.Sprintf("No %s found", what))
}

func statusText(status api.ComparisonStatus) string {
	switch status {
	case api.StatusNew:
		return text.FgGreen.Sprint(status)
	case api.StatusUpdate:
		return text.FgYellow.Sprint(status)
	default:
		return text.FgHiBlack.Sprint(status)
	}
}

func stepCounts(diff *api.TestCaseDiff) string {
	if diff == nil {
		return "-"
	}
	return fmt.Sprintf("+%d -%d ~%d =%d", diff.StepsAdded, diff.StepsRemoved, diff.StepsModified, diff.StepsUnchanged)
}

func title(s string) string {
	return pkgstrings.Truncate(s, pkgstrings.DefaultTitleMaxLen)
}

func (f *Formatter) renderComparison(res *api.ComparisonResult) {
	if len(res.Comparisons) == 0 {
		f.noItems("test cases to compare")
		return
	}

	t := f.newTable("#", "Status", "Similarity", "Generated", "Existing", "Steps")
	for i, c := range res.Comparisons {
		existing := "-"
		if c.Existing != nil {
			existing = fmt.Sprintf("%d: %s", c.Existing.ID, title(c.Existing.Title))
		}
		t.AppendRow(table.Row{
			i + 1,
			statusText(c.Status),
			fmt.Sprintf("%d%%", c.Similarity),
			title(c.Generated.Title),
			existing,
			stepCounts(c.Diff),
		})
	}
	t.Render()

	s := res.Summary
	fmt.Fprintf(f.out, "\nRequirement %d: %d compared against %d existing (%s new, %s update, %s exists)\n",
		res.RequirementID, s.Total, res.ExistingCount,
		text.FgGreen.Sprint(s.NewCount), text.FgYellow.Sprint(s.UpdateCount), text.FgHiBlack.Sprint(s.ExistsCount))
}

func suiteLabel(s *api.TestSuite) string {
	if s == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%d)", s.Name, s.ID)
}

func (f *Formatter) renderCreated(res *api.CreateTestCasesResult) {
	fmt.Fprintf(f.out, "Operation:         %s\n", res.OperationID)
	if res.FeatureSuite != nil {
		fmt.Fprintf(f.out, "Feature suite:     %s\n", suiteLabel(res.FeatureSuite))
	}
	fmt.Fprintf(f.out, "Requirement suite: %s\n\n", suiteLabel(res.RequirementSuite))

	if len(res.TestCases) == 0 {
		f.noItems("created test cases")
		return
	}
	t := f.newTable("ID", "Title", "State")
	for _, wi := range res.TestCases {
		if wi == nil {
			continue
		}
		t.AppendRow(table.Row{wi.ID, title(wi.Fields.Title), wi.Fields.State})
	}
	t.Render()
	fmt.Fprintf(f.out, "\n%s\n", text.FgGreen.Sprintf("Created %d test case(s)", len(res.TestCases)))
}

func (f *Formatter) renderWorkItem(wi *api.WorkItem) {
	t := f.newTable("Field", "Value")
	t.AppendRows([]table.Row{
		{"ID", wi.ID},
		{"Revision", wi.Rev},
		{"Type", wi.Fields.WorkItemType},
		{"Title", wi.Fields.Title},
		{"State", wi.Fields.State},
	})
	t.Render()
}

func (f *Formatter) renderExisting(requirementID int, cases []api.ExistingTestCase) {
	if len(cases) == 0 {
		f.noItems(fmt.Sprintf("test cases for requirement %d", requirementID))
		return
	}
	t := f.newTable("ID", "Title", "State", "Priority", "Steps")
	for _, tc := range cases {
		priority := "-"
		if tc.Priority > 0 {
			priority = strconv.Itoa(tc.Priority)
		}
		t.AppendRow(table.Row{tc.ID, title(tc.Title), tc.State, priority, len(tc.Steps)})
	}
	t.Render()
}

func (f *Formatter) renderSuites(planID int, suites []api.TestSuite) {
	if len(suites) == 0 {
		f.noItems(fmt.Sprintf("suites in test plan %d", planID))
		return
	}
	t := f.newTable("ID", "Name", "Type", "Requirement", "Parent")
	for _, s := range suites {
		requirement, parent := "-", "-"
		if s.RequirementID != 0 {
			requirement = strconv.Itoa(s.RequirementID)
		}
		if s.ParentSuite != nil {
			parent = strconv.Itoa(s.ParentSuite.ID)
		}
		t.AppendRow(table.Row{s.ID, title(s.Name), s.SuiteType, requirement, parent})
	}
	t.Render()
}

func (f *Formatter) renderPlan(plan *api.TestPlan) {
	t := f.newTable("Field", "Value")
	t.AppendRows([]table.Row{
		{"ID", plan.ID},
		{"Name", plan.Name},
		{"Root suite", plan.RootSuite.ID},
		{"Area path", plan.AreaPath},
		{"Iteration", plan.Iteration},
		{"State", plan.State},
	})
	t.Render()
}
