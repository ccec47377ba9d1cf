package model

import (
	"encoding/json"
	"testing"
)

func TestPatchRequestJSON(t *testing.T) {
	tests := []struct {
		name string
		req  PatchRequest
		want string
	}{
		{
			name: "star keeps explicit false",
			req:  StarRequest(1, false),
			want: `{"messageIds":[1],"command":"star","star":false}`,
		},
		{
			name: "read",
			req:  ReadRequest([]int{1, 2}, true),
			want: `{"messageIds":[1,2],"command":"read","read":true}`,
		},
		{
			name: "unread",
			req:  ReadRequest([]int{3}, false),
			want: `{"messageIds":[3],"command":"read","read":false}`,
		},
		{
			name: "delete",
			req:  DeleteRequest([]int{2}),
			want: `{"messageIds":[2],"command":"delete"}`,
		},
		{
			name: "add label",
			req:  AddLabelRequest([]int{1}, "work"),
			want: `{"messageIds":[1],"command":"addLabel","label":"work"}`,
		},
		{
			name: "remove label",
			req:  RemoveLabelRequest([]int{1}, "work"),
			want: `{"messageIds":[1],"command":"removeLabel","label":"work"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.req)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Fatalf("json = %s, want %s", data, tt.want)
			}
			if err := tt.req.Validate(); err != nil {
				t.Fatalf("validate: %v", err)
			}
		})
	}
}

func TestPatchRequestValidateRejects(t *testing.T) {
	blank := "  "
	tests := []struct {
		name string
		req  PatchRequest
	}{
		{name: "star without flag", req: PatchRequest{MessageIDs: []int{1}, Command: CommandStar}},
		{name: "read without flag", req: PatchRequest{MessageIDs: []int{1}, Command: CommandRead}},
		{name: "label missing", req: PatchRequest{MessageIDs: []int{1}, Command: CommandAddLabel}},
		{name: "label blank", req: PatchRequest{MessageIDs: []int{1}, Command: CommandRemoveLabel, Label: &blank}},
		{name: "unknown", req: PatchRequest{MessageIDs: []int{1}, Command: "archive"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.req.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
