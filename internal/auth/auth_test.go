package auth

import (
	"context"
	"errors"
	"testing"

	"davet/internal/model"
)

type fakeRoster struct {
	employees map[int]*model.Employee
}

func (f *fakeRoster) GetEmployeeByID(_ context.Context, id int) (*model.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return nil, errors.New("employee not found")
	}
	return emp, nil
}

func TestStaticAuthenticate(t *testing.T) {
	roster := &fakeRoster{employees: map[int]*model.Employee{
		1: {ID: 1, Name: "Admin", Active: true},
		2: {ID: 2, Name: "Employee", Active: true},
		3: {ID: 3, Name: "Former", Active: false},
	}}
	a := NewStatic(1, "admin123", roster)
	ctx := context.Background()

	t.Run("admin with correct password", func(t *testing.T) {
		id, err := a.Authenticate(ctx, Credentials{EmployeeID: 1, Password: "admin123"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !id.IsAdmin || id.EmployeeID != 1 {
			t.Errorf("expected admin identity, got %+v", id)
		}
	})

	t.Run("admin id with wrong password falls back to employee", func(t *testing.T) {
		id, err := a.Authenticate(ctx, Credentials{EmployeeID: 1, Password: "nope"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id.IsAdmin {
			t.Error("wrong password must not grant admin")
		}
	})

	t.Run("active employee", func(t *testing.T) {
		id, err := a.Authenticate(ctx, Credentials{EmployeeID: 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id.IsAdmin || id.EmployeeID != 2 {
			t.Errorf("expected plain employee identity, got %+v", id)
		}
	})

	t.Run("inactive employee rejected", func(t *testing.T) {
		if _, err := a.Authenticate(ctx, Credentials{EmployeeID: 3}); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown id rejected", func(t *testing.T) {
		if _, err := a.Authenticate(ctx, Credentials{EmployeeID: 99}); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}
