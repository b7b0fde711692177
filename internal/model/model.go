package model

import "time"

const (
	TransportService    = "service"
	TransportIndividual = "individual"
)

type Employee struct {
	ID         int       `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Department string    `db:"department" json:"department"`
	Role       string    `db:"role" json:"role"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

type Event struct {
	ID             int64      `db:"id" json:"id"`
	CompanyName    string     `db:"company_name" json:"companyName"`
	Date           string     `db:"event_date" json:"date"`
	Location       string     `db:"location" json:"location"`
	StartTime      string     `db:"start_time" json:"startTime"`
	EndTime        string     `db:"end_time" json:"endTime"`
	Transportation string     `db:"transportation" json:"transportation"`
	VisibleTo      []int      `db:"visible_to" json:"visibleTo"`
	Responses      []Response `db:"-" json:"responses"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updatedAt"`
}

type Response struct {
	EventID     int64     `db:"event_id" json:"eventId"`
	EmployeeID  int       `db:"employee_id" json:"employeeId"`
	Attending   bool      `db:"attending" json:"attending"`
	RespondedAt time.Time `db:"responded_at" json:"timestamp"`
}
