package types

// Vec3 holds three angles in radians, ordered roll, pitch, yaw (or bearing).
type Vec3 [3]float64

// InputFrame is the per-step snapshot of simulation signals fed to the bridge.
// Values are in SI units; angles are radians.
type InputFrame struct {
	Attitude            Vec3    `yaml:"attitude"`
	Airspeed            float64 `yaml:"airspeed"`
	Groundspeed         float64 `yaml:"groundspeed"`
	NavHeading          float64 `yaml:"nav_heading"`
	AngleOfAttack       float64 `yaml:"angle_of_attack"`
	SideslipAngle       float64 `yaml:"sideslip_angle"`
	ClimbRate           float64 `yaml:"climb_rate"`
	Altitude            float64 `yaml:"altitude"`
	BatteryRemainingPct float64 `yaml:"battery_remaining_pct"`
	BatteryCurrentA     float64 `yaml:"battery_current_a"`
	BatteryVoltageV     float64 `yaml:"battery_voltage_v"`
	NavAttitude         Vec3    `yaml:"nav_attitude"`
}
