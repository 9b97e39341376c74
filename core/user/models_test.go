package user

import (
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/oscardef/tutorassist/core"
)

func TestPasswordHashing(t *testing.T) {
	usr := User{}
	if err := usr.SetPassword("L0remIpsum!"); err != nil {
		t.Fatalf("SetPassword() failed, %v", err)
	}
	if len(usr.PasswordHash) == 0 {
		t.Fatal("PasswordHash not set")
	}
	if err := usr.CheckPassword("L0remIpsum!"); err != nil {
		t.Errorf("CheckPassword() failed, %v", err)
	}
	if err := usr.CheckPassword("nope"); err == nil {
		t.Error("CheckPassword() passed for a wrong password")
	}
}

func TestUserRoles(t *testing.T) {
	tests := []struct {
		name    string
		roles   []string
		admin   bool
		teacher bool
		student bool
	}{
		{name: "student", roles: []string{RoleStudent}, student: true},
		{name: "teacher", roles: []string{RoleTeacher}, teacher: true},
		{name: "admin", roles: []string{RoleAdmin}, admin: true},
		{name: "teaching admin", roles: []string{RoleAdmin, RoleTeacher}, admin: true, teacher: true},
		{name: "no roles", roles: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr := User{Roles: tt.roles}
			if got := usr.IsAdmin(); got != tt.admin {
				t.Errorf("IsAdmin() = %v; want %v", got, tt.admin)
			}
			if got := usr.IsTeacher(); got != tt.teacher {
				t.Errorf("IsTeacher() = %v; want %v", got, tt.teacher)
			}
			if got := usr.IsStudent(); got != tt.student {
				t.Errorf("IsStudent() = %v; want %v", got, tt.student)
			}
		})
	}
}

func TestMaxRolePriority(t *testing.T) {
	if got := MaxRolePriority([]string{RoleStudent, RoleAdmin}); got != RolePriority(RoleAdmin) {
		t.Errorf("MaxRolePriority() = %d; want %d", got, RolePriority(RoleAdmin))
	}
	if got := MaxRolePriority(nil); got != 0 {
		t.Errorf("MaxRolePriority(nil) = %d; want 0", got)
	}
}

func TestPasswordPolicy(t *testing.T) {
	tests := []struct {
		name    string
		nu      NewUser
		wantTag string // empty means valid
	}{
		{
			name: "valid",
			nu:   NewUser{Name: "Awesome User", Username: "awesome", Password: "G0od#Pass", PasswordConfirm: "G0od#Pass"},
		},
		{
			name:    "too short",
			nu:      NewUser{Name: "Awesome User", Username: "awesome", Password: "G0od#Pa", PasswordConfirm: "G0od#Pa"},
			wantTag: pwdMinLenTag,
		},
		{
			name:    "whitespace",
			nu:      NewUser{Name: "Awesome User", Username: "awesome", Password: "G0od #Pass", PasswordConfirm: "G0od #Pass"},
			wantTag: pwdNoSpaceTag,
		},
		{
			name:    "all numeric",
			nu:      NewUser{Name: "Awesome User", Username: "awesome", Password: "12345678", PasswordConfirm: "12345678"},
			wantTag: pwdNotAllNumTag,
		},
		{
			name:    "no complexity",
			nu:      NewUser{Name: "Awesome User", Username: "awesome", Password: "goodpassword", PasswordConfirm: "goodpassword"},
			wantTag: pwdComplexityTag,
		},
		{
			name:    "similar to username",
			nu:      NewUser{Name: "Awesome User", Username: "aw3some!pass", Password: "Aw3some!Pass", PasswordConfirm: "Aw3some!Pass"},
			wantTag: pwdAttrSimTag,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := core.Validate.Struct(tt.nu)
			if tt.wantTag == "" {
				if err != nil {
					t.Fatalf("Validate.Struct() failed, %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate.Struct() passed; want tag %q", tt.wantTag)
			}
			if !containsTag(err, tt.wantTag) {
				t.Errorf("Validate.Struct() = %v; want tag %q", err, tt.wantTag)
			}
		})
	}
}

func containsTag(err error, tag string) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	for _, fe := range verrs {
		if fe.Tag() == tag {
			return true
		}
	}
	return false
}
