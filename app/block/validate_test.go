package block

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lysyi3m/related-nodes/app/related"
)

var knownTypes = []string{"article", "event", "page"}

type fakeNodes map[int64]related.SelectedItem

func (f fakeNodes) LoadByID(ctx context.Context, id int64) (*related.SelectedItem, error) {
	if id == 666 {
		return nil, errors.New("database is locked")
	}
	item, ok := f[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

type fakeOptions map[string]map[string]string

func (f fakeOptions) ViewModeOptions(ctx context.Context, contentType string) (map[string]string, error) {
	return f[contentType], nil
}

func mustParse(t *testing.T, content string) *Config {
	t.Helper()
	blockConfig, err := ParseConfig("test", []byte(content))
	if err != nil {
		t.Fatal(err)
	}
	return blockConfig
}

func TestCriteria(t *testing.T) {
	blockConfig := mustParse(t, `
row_filter:
  content_type_curr_node: ignore
  content_types:
    page: true
row_display:
  type: next
  limit: 3
  skip: 2
  reverse_order: true
`)

	got := blockConfig.Criteria(knownTypes)
	want := related.SelectionCriteria{
		ContentTypeFilterMode:   related.FilterIgnore,
		ContentTypes:            map[string]bool{"article": false, "event": false, "page": true},
		NegateContentTypes:      true,
		OrderingStrategy:        related.OrderNext,
		ReferenceTimestampField: related.TimestampCreated,
		Limit:                   3,
		Skip:                    2,
		ReverseOrder:            true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Criteria mismatch (-want +got):\n%s", diff)
	}
	if blockConfig.DisplayType() != "next" {
		t.Errorf("Expected display type 'next', got '%s'", blockConfig.DisplayType())
	}
}

func TestCriteria_Specific(t *testing.T) {
	blockConfig := mustParse(t, "row_filter:\n  specific: true\n  node_title_id: \"About us (7)\"\n")

	got := blockConfig.Criteria(knownTypes)
	if got.SpecificID != "About us (7)" {
		t.Errorf("Expected specific id 'About us (7)', got '%s'", got.SpecificID)
	}
	if got.DisplayType() != related.DisplayTypeSpecific || blockConfig.DisplayType() != related.DisplayTypeSpecific {
		t.Errorf("Expected display type 'specific', got '%s'", got.DisplayType())
	}
}

func TestValidateContentTypes(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "include needs nothing",
			content: "row_filter:\n  content_type_curr_node: include\n",
		},
		{
			name:    "ignore with everything negated",
			content: "row_filter:\n  content_type_curr_node: ignore\n",
			wantErr: "at least 1 effective content type",
		},
		{
			name:    "ignore with one type",
			content: "row_filter:\n  content_type_curr_node: ignore\n  content_types_negate: false\n  content_types:\n    page: true\n",
		},
		{
			name:    "exclude with one negated type left",
			content: "row_filter:\n  content_type_curr_node: exclude\n  content_types:\n    page: true\n    article: true\n",
			wantErr: "at least 2 effective content types",
		},
		{
			name:    "exclude with two types",
			content: "row_filter:\n  content_type_curr_node: exclude\n  content_types:\n    page: true\n",
		},
		{
			name:    "unknown type",
			content: "row_filter:\n  content_types:\n    recipe: true\n",
			wantErr: `unknown content type "recipe"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mustParse(t, tt.content).ValidateContentTypes(knownTypes)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateReferences_Specific(t *testing.T) {
	nodes := fakeNodes{7: {ID: 7, ContentType: "page"}}

	if err := mustParse(t, "row_filter:\n  specific: true\n  node_title_id: \"7\"\n").ValidateReferences(context.Background(), knownTypes, nodes); err != nil {
		t.Errorf("Expected valid specific node, got %v", err)
	}

	err := mustParse(t, "row_filter:\n  specific: true\n  node_title_id: \"Gone (8)\"\n").ValidateReferences(context.Background(), knownTypes, nodes)
	if err == nil || !strings.Contains(err.Error(), "could not be validated") {
		t.Errorf("Expected missing node error, got %v", err)
	}

	err = mustParse(t, "row_filter:\n  specific: true\n  node_title_id: \"666\"\n").ValidateReferences(context.Background(), knownTypes, nodes)
	if err == nil || !strings.Contains(err.Error(), "database is locked") {
		t.Errorf("Expected lookup error, got %v", err)
	}
}

func TestValidateReferences_AccumulatesErrors(t *testing.T) {
	blockConfig := mustParse(t, "row_filter:\n  content_type_curr_node: exclude\n  content_types:\n    recipe: true\n    page: true\n    event: true\n    article: true\n")

	err := blockConfig.ValidateReferences(context.Background(), knownTypes, fakeNodes{})
	messages := Errors(err)
	if len(messages) != 2 {
		t.Fatalf("Expected 2 problems, got %d: %v", len(messages), messages)
	}
	if !strings.Contains(messages[0], "at least 2") || !strings.Contains(messages[1], "recipe") {
		t.Errorf("Unexpected problems: %v", messages)
	}
}

func TestViewModeChoices(t *testing.T) {
	options := fakeOptions{
		"article": {"teaser": "Teaser", "full": "Full content", "email_html": "Email"},
		"page":    {"full": "Full content", "card": "Card"},
		"event":   {"diff": "Revision comparison", "calendar": "Calendar"},
	}
	nodes := fakeNodes{7: {ID: 7, ContentType: "event"}}

	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "include offers every type",
			content: "row_filter:\n  content_type_curr_node: include\n",
			want:    []string{"teaser", "calendar", "card", "full"},
		},
		{
			name:    "ignore uses the negated selection",
			content: "row_filter:\n  content_type_curr_node: ignore\n  content_types:\n    article: true\n",
			want:    []string{"calendar", "card", "full"},
		},
		{
			name:    "specific node uses its type",
			content: "row_filter:\n  specific: true\n  node_title_id: \"Launch (7)\"\n",
			want:    []string{"calendar"},
		},
		{
			name:    "missing specific node offers nothing",
			content: "row_filter:\n  specific: true\n  node_title_id: \"42\"\n",
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			choices, err := mustParse(t, tt.content).ViewModeChoices(context.Background(), knownTypes, nodes, options)
			if err != nil {
				t.Fatal(err)
			}
			got := make([]string, 0, len(choices))
			for _, c := range choices {
				got = append(got, c.ID)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ViewModeChoices mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
