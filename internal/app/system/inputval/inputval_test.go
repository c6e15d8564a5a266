package inputval

import "testing"

type signup struct {
	Username string  `json:"username" validate:"required,max=10"`
	RoleID   string  `json:"role_id" validate:"required,mongodb"`
	Remark   *string `json:"remark" validate:"omitempty,max=5"`
	Password string  `json:"password" validate:"required,min=8"`
	Confirm  string  `json:"password_confirmation" validate:"eqfield=Password"`
}

func TestStruct_Valid(t *testing.T) {
	in := signup{
		Username: "john",
		RoleID:   "507f1f77bcf86cd799439011",
		Password: "secret123",
		Confirm:  "secret123",
	}
	if errs := Struct(in, nil); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestStruct_ReportsEveryField(t *testing.T) {
	long := "too long remark"
	in := signup{
		RoleID:   "nope",
		Remark:   &long,
		Password: "short",
		Confirm:  "other",
	}

	errs := Struct(in, nil)

	tests := []struct {
		field string
		want  string
	}{
		{"username", "The username field is required."},
		{"role_id", "The selected role id is invalid."},
		{"remark", "The remark field must not be greater than 5 characters."},
		{"password", "The password field must be at least 8 characters."},
		{"password_confirmation", "The password confirmation field does not match."},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if got := errs[tt.field]; got != tt.want {
				t.Errorf("errs[%q] = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestStruct_MessageOverride(t *testing.T) {
	in := signup{RoleID: "507f1f77bcf86cd799439011", Password: "secret123", Confirm: "secret123"}
	errs := Struct(in, Messages{"username.required": "Username is required"})
	if errs["username"] != "Username is required" {
		t.Errorf("expected override message, got %q", errs["username"])
	}
}

func TestErrors_AddKeepsFirst(t *testing.T) {
	e := Errors{}
	e.Add("username", "first")
	e.Add("username", "second")
	if e["username"] != "first" {
		t.Errorf("expected first message kept, got %q", e["username"])
	}
}
