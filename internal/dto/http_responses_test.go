package dto

import (
	"reflect"
	"testing"
)

func TestMissingFields(t *testing.T) {
	full := CreateEventRequest{
		CompanyName:    "Arketipo Design",
		Date:           "2025-06-12",
		Location:       "Masko",
		StartTime:      "09:30",
		EndTime:        "17:00",
		Transportation: "service",
		VisibleTo:      []int{1, 2},
	}

	tests := []struct {
		name   string
		mutate func(r *CreateEventRequest)
		want   []string
	}{
		{
			name:   "complete request",
			mutate: func(r *CreateEventRequest) {},
			want:   nil,
		},
		{
			name:   "missing location only",
			mutate: func(r *CreateEventRequest) { r.Location = "" },
			want:   []string{"location"},
		},
		{
			name:   "missing transportation only",
			mutate: func(r *CreateEventRequest) { r.Transportation = "" },
			want:   []string{"transportation"},
		},
		{
			name:   "empty visibility list",
			mutate: func(r *CreateEventRequest) { r.VisibleTo = nil },
			want:   []string{"visibleTo"},
		},
		{
			name: "several missing, documented order",
			mutate: func(r *CreateEventRequest) {
				r.CompanyName = ""
				r.EndTime = ""
			},
			want: []string{"companyName", "endTime"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := full
			tt.mutate(&req)
			if got := req.MissingFields(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MissingFields() = %v, want %v", got, tt.want)
			}
		})
	}
}
