package models

import "testing"

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		customer Customer
		want     string
	}{
		{"company", Customer{IsCompany: true, Company: "ACME GmbH", FirstName: "Max"}, "ACME GmbH"},
		{"person", Customer{FirstName: "Erika", LastName: "Muster"}, "Erika Muster"},
		{"first name only", Customer{FirstName: "Erika"}, "Erika"},
		{"last name only", Customer{LastName: "Muster"}, "Muster"},
		{"company flag without name", Customer{IsCompany: true, FirstName: "Max", LastName: "Muster"}, "Max Muster"},
		{"nothing but company field", Customer{Company: "ACME GmbH"}, "ACME GmbH"},
		{"empty", Customer{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.customer.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
