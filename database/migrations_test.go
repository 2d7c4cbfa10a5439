package database

import (
	"reflect"
	"testing"
)

func TestBackupArgs(t *testing.T) {
	cases := []struct {
		name  string
		flags string
		want  []string
	}{
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"single flag", "--single-transaction", []string{"--single-transaction"}},
		{"multiple flags", "--single-transaction --quick --all-databases", []string{"--single-transaction", "--quick", "--all-databases"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("DB_BACKUP_FLAGS", tc.flags)
			got := backupArgs()
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("backupArgs() = %v, want %v", got, tc.want)
			}
		})
	}
}
