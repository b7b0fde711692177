// Package auth keeps the admin/employee distinction behind a capability
// interface so the rest of the service never touches credentials.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"

	"davet/internal/model"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Credentials struct {
	EmployeeID int
	Password   string
}

type Identity struct {
	EmployeeID int
	IsAdmin    bool
}

type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (Identity, error)
}

// RosterLookup is the slice of the repository the authenticator needs.
type RosterLookup interface {
	GetEmployeeByID(ctx context.Context, id int) (*model.Employee, error)
}

// Static authenticates against a single configured admin account; any other
// active roster member logs in as a regular employee.
type Static struct {
	AdminID       int
	AdminPassword string
	Roster        RosterLookup
}

func NewStatic(adminID int, adminPassword string, roster RosterLookup) *Static {
	return &Static{
		AdminID:       adminID,
		AdminPassword: adminPassword,
		Roster:        roster,
	}
}

func (s *Static) Authenticate(ctx context.Context, creds Credentials) (Identity, error) {
	if creds.EmployeeID == s.AdminID &&
		subtle.ConstantTimeCompare([]byte(creds.Password), []byte(s.AdminPassword)) == 1 {
		return Identity{EmployeeID: creds.EmployeeID, IsAdmin: true}, nil
	}

	emp, err := s.Roster.GetEmployeeByID(ctx, creds.EmployeeID)
	if err != nil {
		return Identity{}, ErrInvalidCredentials
	}
	if !emp.Active {
		return Identity{}, ErrInvalidCredentials
	}

	return Identity{EmployeeID: emp.ID, IsAdmin: false}, nil
}
