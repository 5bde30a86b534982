package capacity

// ServiceType is the marketplace service a provider offers. Capacity is
// counted in orders per slot for laundry and minutes per slot for cleaning.
type ServiceType string

const (
	ServiceLaundry  ServiceType = "LAUNDRY"
	ServiceCleaning ServiceType = "CLEANING"
)

func (s ServiceType) String() string {
	return string(s)
}

func (s ServiceType) IsValid() bool {
	switch s {
	case ServiceLaundry, ServiceCleaning:
		return true
	default:
		return false
	}
}

func ServiceTypes() []ServiceType {
	return []ServiceType{ServiceLaundry, ServiceCleaning}
}

// SlotStatus is derived from reserved vs max units, never stored.
type SlotStatus string

const (
	StatusAvailable SlotStatus = "available"
	StatusPartial   SlotStatus = "partial"
	StatusFull      SlotStatus = "full"
)

func (s SlotStatus) String() string {
	return string(s)
}
