package screen

import (
	"context"
	"strings"
	"unicode/utf8"

	"taskmgr/internal/notify"
	"taskmgr/internal/service"
)

// Register creates a new account.
type Register struct {
	Firstname string
	Lastname  string
	Email     string
	Password  string
	Country   string
	Role      service.Role

	svc      service.Service
	notifier notify.Notifier
}

// NewRegister creates an empty registration form with the default role.
func NewRegister(svc service.Service, n notify.Notifier) *Register {
	return &Register{Role: service.DefaultRole, svc: svc, notifier: n}
}

func (r *Register) registration() service.Registration {
	role := r.Role
	if role == "" {
		role = service.DefaultRole
	}
	return service.Registration{
		Firstname: strings.TrimSpace(r.Firstname),
		Lastname:  strings.TrimSpace(r.Lastname),
		Email:     strings.TrimSpace(r.Email),
		Password:  r.Password,
		Country:   strings.TrimSpace(r.Country),
		Role:      role,
	}
}

// Submit sends the registration. It succeeds only on the server's
// confirmation; any other reply is shown to the user as is.
func (r *Register) Submit(ctx context.Context) (Route, error) {
	reg := r.registration()
	if reg.Firstname == "" || reg.Lastname == "" || reg.Email == "" || reg.Password == "" || reg.Country == "" {
		r.notifier.Error(MsgFillRequired)
		return RouteRegister, errMissingFields
	}

	msg, err := r.svc.Register(ctx, reg)
	if err != nil {
		if service.IsKind(err, service.KindRejected) {
			r.notifier.Error(service.Message(err))
		} else {
			r.notifier.Error(MsgRegisterFailed)
		}
		return RouteRegister, err
	}

	r.notifier.Success(msg)
	*r = Register{Role: service.DefaultRole, svc: r.svc, notifier: r.notifier}
	return RouteLogin, nil
}

// Strength rates a password for display next to the password field.
type Strength struct {
	Score int // 0-100
	Label string
}

// PasswordStrength scores length and character variety.
func PasswordStrength(pwd string) Strength {
	if pwd == "" {
		return Strength{Score: 0, Label: "Too short"}
	}

	score := 0
	n := utf8.RuneCountInString(pwd)
	if n >= 8 {
		score += 20
	}
	if n >= 12 {
		score += 10
	}
	if strings.ContainsFunc(pwd, inRange('a', 'z')) {
		score += 15
	}
	if strings.ContainsFunc(pwd, inRange('A', 'Z')) {
		score += 15
	}
	if strings.ContainsFunc(pwd, inRange('0', '9')) {
		score += 20
	}
	if strings.ContainsAny(pwd, "!@#$%^&*") {
		score += 20
	}
	score = min(score, 100)

	switch {
	case score >= 70:
		return Strength{Score: score, Label: "Strong"}
	case score >= 40:
		return Strength{Score: score, Label: "Medium"}
	default:
		return Strength{Score: score, Label: "Weak"}
	}
}

func inRange(lo, hi rune) func(rune) bool {
	return func(r rune) bool { return r >= lo && r <= hi }
}
