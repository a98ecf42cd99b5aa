package validation

import "fmt"

// Password validates password length. bcrypt ignores bytes past 72, so
// longer passwords are rejected instead of silently truncated.
func (v *Validator) Password(field, password string) {
	v.Required(field, password)
	if password == "" {
		return
	}
	v.Check(len(password) >= MinPasswordLength, field,
		fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	v.Check(len(password) <= MaxPasswordLength, field,
		fmt.Sprintf("must not be more than %d characters", MaxPasswordLength))
}
