package model

// Device types with a preference rule.
const (
	DeviceThermostat = "thermostat"
	DeviceLight      = "light"
	DeviceCurtains   = "curtains"
	DeviceTV         = "tv"
)

// IotDevice is a controllable device installed in a room. The shape of
// CurrentState depends on DeviceType.
type IotDevice struct {
	ID           ID             `json:"id"`
	HotelID      *ID            `json:"hotelId,omitempty"`
	RoomID       ID             `json:"roomId"`
	DeviceType   string         `json:"deviceType"`
	CurrentState map[string]any `json:"currentState"`
	LastUpdated  string         `json:"lastUpdated,omitempty"`
	Extra        Extra          `json:"-"`
}

func (d *IotDevice) SetExtra(e Extra) { d.Extra = e }

func (d IotDevice) MarshalJSON() ([]byte, error) {
	type plain IotDevice
	return marshalWithExtra(plain(d), d.Extra)
}
