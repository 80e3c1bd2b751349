package helper

import (
	"testing"

	"eventhub_backend/internals/constants"
	userModel "eventhub_backend/internals/features/users/user/model"
	"eventhub_backend/internals/helpers/apperror"
	"eventhub_backend/internals/helpers/testdb"
)

var userFilterSpec = FilterSpec{
	SearchColumns: []string{"name", "email"},
	Fields: []FilterField{
		{Param: "role", Column: "role", Kind: FilterEnum, Allowed: constants.AllRoles},
		{Param: "isHost", Column: "is_host", Kind: FilterBool},
		{Param: "id", Column: "id", Kind: FilterUUID},
	},
}

func TestParseFilterRejectsBadValues(t *testing.T) {
	_, err := ParseFilter(map[string]string{"role": "OWNER", "isHost": "maybe", "id": "x"}, userFilterSpec)
	ae, ok := apperror.As(err)
	if !ok || ae.Kind != apperror.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(ae.Fields) != 3 {
		t.Fatalf("fields = %+v", ae.Fields)
	}
}

func TestFilterApply(t *testing.T) {
	db := testdb.Open(t)
	alice := testdb.User(t, db, constants.RoleUser)
	db.Model(alice).Update("name", "Alice Wonder")
	testdb.Host(t, db)
	testdb.User(t, db, constants.RoleAdmin)

	tests := []struct {
		name  string
		query map[string]string
		want  int64
	}{
		{"no filter", map[string]string{}, 3},
		{"search is case-insensitive", map[string]string{"searchTerm": "wONDER"}, 1},
		{"enum", map[string]string{"role": constants.RoleAdmin}, 1},
		{"bool", map[string]string{"isHost": "true"}, 1},
		{"combined", map[string]string{"isHost": "false", "role": constants.RoleUser}, 1},
		{"unknown keys ignored", map[string]string{"password": "x"}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFilter(tt.query, userFilterSpec)
			if err != nil {
				t.Fatal(err)
			}
			var n int64
			if err := f.Apply(db.Model(&userModel.User{})).Count(&n).Error; err != nil {
				t.Fatal(err)
			}
			if n != tt.want {
				t.Fatalf("count = %d, want %d", n, tt.want)
			}
		})
	}
}
