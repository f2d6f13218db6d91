package model

import "time"

type StaffRole struct {
	ID   int64  `db:"staff_role_id" json:"staff_role_id"`
	Name string `db:"name" json:"name"`
}

type Department struct {
	ID             int64   `db:"department_id" json:"department_id"`
	Name           string  `db:"name" json:"name"`
	BuildingNumber *string `db:"building_number" json:"building_number,omitempty"`
	Floor          *int    `db:"floor" json:"floor,omitempty"`
	Capacity       *int    `db:"capacity" json:"capacity,omitempty"`
}

type Specialty struct {
	ID           int64   `db:"specialty_id" json:"specialty_id"`
	Name         string  `db:"name" json:"name"`
	BaseVisitFee float64 `db:"base_visit_fee" json:"base_visit_fee"`
}

// Staff specializes Person; its primary key is the person id.
type Staff struct {
	ID           int64     `db:"staff_id" json:"staff_id"`
	StaffRoleID  int64     `db:"staff_role_id" json:"staff_role_id"`
	DepartmentID int64     `db:"department_id" json:"department_id"`
	HireDate     time.Time `db:"hire_date" json:"hire_date"`
}

// Doctor specializes Staff; its primary key is the staff id.
type Doctor struct {
	StaffID     int64   `db:"staff_id" json:"staff_id"`
	SpecialtyID int64   `db:"specialty_id" json:"specialty_id"`
	LicenseNo   *string `db:"license_no" json:"license_no,omitempty"`
}
