package crumb

import "testing"

func TestFormatCommitMessage(t *testing.T) {
	tests := []struct {
		name    string
		ctype   string
		scope   string
		subject string
		body    string
		want    string
	}{
		{
			name:    "simple",
			ctype:   "post",
			subject: "publish boule essay",
			want:    "post: publish boule essay\n\nPowered-by: crumb",
		},
		{
			name:    "with scope",
			ctype:   "edit",
			scope:   "essays",
			subject: "tighten proofing section",
			want:    "edit(essays): tighten proofing section\n\nPowered-by: crumb",
		},
		{
			name:    "with body",
			ctype:   "fix",
			subject: "correct hydration table",
			body:    "The 75% row was off by ten grams.",
			want:    "fix: correct hydration table\n\nThe 75% row was off by ten grams.\n\nPowered-by: crumb",
		},
		{
			name:    "empty type falls back",
			subject: "weekly update",
			want:    "post: weekly update\n\nPowered-by: crumb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCommitMessage(tt.ctype, tt.scope, tt.subject, tt.body)
			if got != tt.want {
				t.Errorf("FormatCommitMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppendFooter(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want string
	}{
		{
			name: "plain",
			msg:  "simple message",
			want: "simple message\n\nPowered-by: crumb",
		},
		{
			name: "already has newline",
			msg:  "line 1\n",
			want: "line 1\n\nPowered-by: crumb",
		},
		{
			name: "footer already present",
			msg:  "done\n\nPowered-by: crumb",
			want: "done\n\nPowered-by: crumb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AppendFooter(tt.msg)
			if got != tt.want {
				t.Errorf("AppendFooter() = %q, want %q", got, tt.want)
			}
		})
	}
}
