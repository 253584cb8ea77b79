package security

// Sensor is the wire form of a sensor.
type Sensor struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Active bool   `json:"active"`
}

// GetStatusRequest asks for the current controller state.
type GetStatusRequest struct{}

// StatusResponse carries the controller state.
type StatusResponse struct {
	ArmingStatus string    `json:"arming_status"`
	AlarmStatus  string    `json:"alarm_status"`
	Sensors      []*Sensor `json:"sensors"`
}

// SetArmingStatusRequest changes the arming status.
type SetArmingStatusRequest struct {
	ArmingStatus string `json:"arming_status"`
}

// ChangeSensorActivationRequest activates or deactivates a sensor.
type ChangeSensorActivationRequest struct {
	SensorID string `json:"sensor_id"`
	Active   bool   `json:"active"`
}

// SensorResponse returns a sensor together with the resulting alarm status.
type SensorResponse struct {
	Sensor      *Sensor `json:"sensor"`
	AlarmStatus string  `json:"alarm_status"`
}

// AddSensorRequest registers a sensor. ID is optional.
type AddSensorRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// RemoveSensorRequest deletes a sensor.
type RemoveSensorRequest struct {
	SensorID string `json:"sensor_id"`
}

// ListSensorsRequest asks for all sensors.
type ListSensorsRequest struct{}

// ListSensorsResponse carries all sensors.
type ListSensorsResponse struct {
	Sensors []*Sensor `json:"sensors"`
}

// ProcessImageRequest carries an encoded camera image.
type ProcessImageRequest struct {
	Image []byte `json:"image"`
}

// ProcessImageResponse reports the classification and the resulting alarm status.
type ProcessImageResponse struct {
	CatDetected bool   `json:"cat_detected"`
	AlarmStatus string `json:"alarm_status"`
}
