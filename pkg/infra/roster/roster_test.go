package roster_test

import (
	"strings"
	"testing"

	"github.com/classtools/classlab/pkg/domain/types"
	"github.com/classtools/classlab/pkg/infra/roster"
	"github.com/m-mizutani/goerr/v2"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		comma    rune
		wantRows int
		wantErr  bool
	}{
		{
			name:     "plain roster",
			input:    "login,email,group\nalice,alice@example.com,mon-10\nbob,bob@example.com,tue-12\n",
			wantRows: 2,
		},
		{
			name:     "header only",
			input:    "login,email\n",
			wantRows: 0,
		},
		{
			name:     "semicolon delimiter",
			input:    "login;email\nalice;alice@example.com\n",
			comma:    ';',
			wantRows: 1,
		},
		{
			name:    "empty file",
			input:   "",
			wantErr: true,
		},
		{
			name:    "ragged row",
			input:   "login,email\nalice\n",
			wantErr: true,
		},
		{
			name:    "duplicate column",
			input:   "login,login\nalice,bob\n",
			wantErr: true,
		},
		{
			name:    "empty column name",
			input:   "login,\nalice,x\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := roster.Read(strings.NewReader(tt.input), tt.comma)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Read() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !goerr.HasTag(err, types.ErrTagRoster) {
					t.Errorf("Read() error %v is missing the roster tag", err)
				}
				return
			}
			if len(r.Rows) != tt.wantRows {
				t.Errorf("Read() returned %d rows, want %d", len(r.Rows), tt.wantRows)
			}
		})
	}
}

func TestReadKeepsOrderAndValues(t *testing.T) {
	input := "login,group\ncarol,a\nalice,b\nbob,c\n"
	r, err := roster.Read(strings.NewReader(input), 0)
	if err != nil {
		t.Fatalf("Read() unexpected error: %v", err)
	}

	wantLogins := []string{"carol", "alice", "bob"}
	for i, login := range wantLogins {
		if got := r.Rows[i].Get("login"); got != login {
			t.Errorf("row %d login = %q, want %q", i, got, login)
		}
	}
	if !r.HasColumn("group") {
		t.Error("HasColumn(group) = false, want true")
	}
	if r.HasColumn("email") {
		t.Error("HasColumn(email) = true, want false")
	}
}
