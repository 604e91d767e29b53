package models

import "testing"

func uintPtr(v uint) *uint { return &v }

func TestIsPhantom(t *testing.T) {
	tests := []struct {
		name  string
		order Order
		want  bool
	}{
		{"completely empty", Order{OrderNumber: "SRV-1"}, true},
		{"has customer", Order{CustomerID: uintPtr(1)}, false},
		{"has device", Order{Devices: []Device{{ID: 1}}}, false},
		{"has note", Order{Notes: []OrderNote{{ID: 1, Body: "called"}}}, false},
		{"has line item", Order{Items: []ServiceOrderItem{{ID: 1}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.order.IsPhantom(); got != tt.want {
				t.Errorf("IsPhantom() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeDescription(t *testing.T) {
	scanner := &Product{Name: "Scanner X2"}
	dock := &Product{Name: "Dock Station"}

	tests := []struct {
		name    string
		devices []Device
		want    string
	}{
		{"no devices", nil, ""},
		{
			"single device",
			[]Device{{ID: 1, SerialNumber: "A100", Product: scanner}},
			"Scanner X2, SN A100",
		},
		{
			"primary by lowest position",
			[]Device{
				{ID: 1, Position: 2, SerialNumber: "B200", Product: dock},
				{ID: 2, Position: 1, SerialNumber: "A100", Product: scanner},
			},
			"Scanner X2, SN A100 (+1)",
		},
		{
			"position tie broken by attach order",
			[]Device{
				{ID: 5, Position: 0, SerialNumber: "B200", Product: dock},
				{ID: 3, Position: 0, SerialNumber: "A100", Product: scanner},
			},
			"Scanner X2, SN A100 (+1)",
		},
		{
			"serial only",
			[]Device{{ID: 1, SerialNumber: "A100"}},
			"SN A100",
		},
		{
			"product only",
			[]Device{{ID: 1, Product: scanner}},
			"Scanner X2",
		},
		{
			"primary has no label",
			[]Device{{ID: 1, Position: 0}, {ID: 2, Position: 1, Product: scanner}},
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Order{Devices: tt.devices}
			if got := o.ComputeDescription(); got != tt.want {
				t.Errorf("ComputeDescription() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestComputeStatusName(t *testing.T) {
	o := Order{}
	if got := o.ComputeStatusName(); got != "" {
		t.Errorf("ComputeStatusName() without status = %q, want empty", got)
	}
	o.Status = &Status{Name: "In Repair"}
	if got := o.ComputeStatusName(); got != "In Repair" {
		t.Errorf("ComputeStatusName() = %q, want In Repair", got)
	}
}

func TestComputeCustomerName(t *testing.T) {
	o := Order{}
	if got := o.ComputeCustomerName(); got != "" {
		t.Errorf("ComputeCustomerName() without customer = %q, want empty", got)
	}
	o.Customer = &Customer{FirstName: "Erika", LastName: "Muster"}
	if got := o.ComputeCustomerName(); got != "Erika Muster" {
		t.Errorf("ComputeCustomerName() = %q, want Erika Muster", got)
	}
}
