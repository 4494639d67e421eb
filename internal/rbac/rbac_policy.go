package rbac

import "go-timeclock/internal/domain"

// DefaultPermissions is the baseline policy seeded on startup. Admins may do
// anything; employees are limited to their own punches and requests.
var DefaultPermissions = []RolePermission{
	{Role: domain.RoleAdmin, Resource: "*", Action: "*"},

	{Role: domain.RoleEmployee, Resource: "punch", Action: "create"},
	{Role: domain.RoleEmployee, Resource: "punch", Action: "read_own"},
	{Role: domain.RoleEmployee, Resource: "timesheet", Action: "read_own"},
	{Role: domain.RoleEmployee, Resource: "correction", Action: "create"},
	{Role: domain.RoleEmployee, Resource: "correction", Action: "read_own"},
	{Role: domain.RoleEmployee, Resource: "timeoff", Action: "create"},
	{Role: domain.RoleEmployee, Resource: "timeoff", Action: "read_own"},
	{Role: domain.RoleEmployee, Resource: "timeoff", Action: "delete_own"},
	{Role: domain.RoleEmployee, Resource: "settings", Action: "read"},
}
