package common

import "github.com/danmuck/mavlink/internal/protocol/wire"

// Field order below is wire order: base fields sorted by type size,
// extension fields after them in declaration order.

// Heartbeat is HEARTBEAT (0).
type Heartbeat struct {
	CustomMode     uint32                  `json:"custom_mode"`
	Type           wire.Enum[MavType]      `json:"type"`
	Autopilot      wire.Enum[MavAutopilot] `json:"autopilot"`
	BaseMode       uint8                   `json:"base_mode"`
	SystemStatus   wire.Enum[MavState]     `json:"system_status"`
	MavlinkVersion uint8                   `json:"mavlink_version"`
}

func (Heartbeat) MessageID() uint32 { return 0 }

func (m *Heartbeat) MarshalPayload(e *wire.Encoder) {
	e.PutUint32(m.CustomMode)
	e.PutEnum(m.Type.Raw, 1)
	e.PutEnum(m.Autopilot.Raw, 1)
	e.PutUint8(m.BaseMode)
	e.PutEnum(m.SystemStatus.Raw, 1)
	e.PutUint8(m.MavlinkVersion)
}

func (m *Heartbeat) UnmarshalPayload(d *wire.Decoder) {
	m.CustomMode = d.Uint32()
	m.Type = MavTypeEntries.Decode(d.Enum(1))
	m.Autopilot = MavAutopilotEntries.Decode(d.Enum(1))
	m.BaseMode = d.Uint8()
	m.SystemStatus = MavStateEntries.Decode(d.Enum(1))
	m.MavlinkVersion = d.Uint8()
}

// SysStatus is SYS_STATUS (1).
type SysStatus struct {
	OnboardControlSensorsPresent uint32 `json:"onboard_control_sensors_present"`
	OnboardControlSensorsEnabled uint32 `json:"onboard_control_sensors_enabled"`
	OnboardControlSensorsHealth  uint32 `json:"onboard_control_sensors_health"`
	Load                         uint16 `json:"load"`
	VoltageBattery               uint16 `json:"voltage_battery"`
	CurrentBattery               int16  `json:"current_battery"`
	DropRateComm                 uint16 `json:"drop_rate_comm"`
	ErrorsComm                   uint16 `json:"errors_comm"`
	ErrorsCount1                 uint16 `json:"errors_count1"`
	ErrorsCount2                 uint16 `json:"errors_count2"`
	ErrorsCount3                 uint16 `json:"errors_count3"`
	ErrorsCount4                 uint16 `json:"errors_count4"`
	BatteryRemaining             int8   `json:"battery_remaining"`
}

func (SysStatus) MessageID() uint32 { return 1 }

func (m *SysStatus) MarshalPayload(e *wire.Encoder) {
	e.PutUint32(m.OnboardControlSensorsPresent)
	e.PutUint32(m.OnboardControlSensorsEnabled)
	e.PutUint32(m.OnboardControlSensorsHealth)
	e.PutUint16(m.Load)
	e.PutUint16(m.VoltageBattery)
	e.PutInt16(m.CurrentBattery)
	e.PutUint16(m.DropRateComm)
	e.PutUint16(m.ErrorsComm)
	e.PutUint16(m.ErrorsCount1)
	e.PutUint16(m.ErrorsCount2)
	e.PutUint16(m.ErrorsCount3)
	e.PutUint16(m.ErrorsCount4)
	e.PutInt8(m.BatteryRemaining)
}

func (m *SysStatus) UnmarshalPayload(d *wire.Decoder) {
	m.OnboardControlSensorsPresent = d.Uint32()
	m.OnboardControlSensorsEnabled = d.Uint32()
	m.OnboardControlSensorsHealth = d.Uint32()
	m.Load = d.Uint16()
	m.VoltageBattery = d.Uint16()
	m.CurrentBattery = d.Int16()
	m.DropRateComm = d.Uint16()
	m.ErrorsComm = d.Uint16()
	m.ErrorsCount1 = d.Uint16()
	m.ErrorsCount2 = d.Uint16()
	m.ErrorsCount3 = d.Uint16()
	m.ErrorsCount4 = d.Uint16()
	m.BatteryRemaining = d.Int8()
}

// ParamValue is PARAM_VALUE (22).
type ParamValue struct {
	ParamValue float32                 `json:"param_value"`
	ParamCount uint16                  `json:"param_count"`
	ParamIndex uint16                  `json:"param_index"`
	ParamID    string                  `json:"param_id"`
	ParamType  wire.Enum[MavParamType] `json:"param_type"`
}

func (ParamValue) MessageID() uint32 { return 22 }

func (m *ParamValue) MarshalPayload(e *wire.Encoder) {
	e.PutFloat32(m.ParamValue)
	e.PutUint16(m.ParamCount)
	e.PutUint16(m.ParamIndex)
	e.PutString(m.ParamID, 16)
	e.PutEnum(m.ParamType.Raw, 1)
}

func (m *ParamValue) UnmarshalPayload(d *wire.Decoder) {
	m.ParamValue = d.Float32()
	m.ParamCount = d.Uint16()
	m.ParamIndex = d.Uint16()
	m.ParamID = d.String(16)
	m.ParamType = MavParamTypeEntries.Decode(d.Enum(1))
}

// Attitude is ATTITUDE (30).
type Attitude struct {
	TimeBootMs uint32  `json:"time_boot_ms"`
	Roll       float32 `json:"roll"`
	Pitch      float32 `json:"pitch"`
	Yaw        float32 `json:"yaw"`
	Rollspeed  float32 `json:"rollspeed"`
	Pitchspeed float32 `json:"pitchspeed"`
	Yawspeed   float32 `json:"yawspeed"`
}

func (Attitude) MessageID() uint32 { return 30 }

func (m *Attitude) MarshalPayload(e *wire.Encoder) {
	e.PutUint32(m.TimeBootMs)
	e.PutFloat32(m.Roll)
	e.PutFloat32(m.Pitch)
	e.PutFloat32(m.Yaw)
	e.PutFloat32(m.Rollspeed)
	e.PutFloat32(m.Pitchspeed)
	e.PutFloat32(m.Yawspeed)
}

func (m *Attitude) UnmarshalPayload(d *wire.Decoder) {
	m.TimeBootMs = d.Uint32()
	m.Roll = d.Float32()
	m.Pitch = d.Float32()
	m.Yaw = d.Float32()
	m.Rollspeed = d.Float32()
	m.Pitchspeed = d.Float32()
	m.Yawspeed = d.Float32()
}

// GlobalPositionInt is GLOBAL_POSITION_INT (33).
type GlobalPositionInt struct {
	TimeBootMs  uint32 `json:"time_boot_ms"`
	Lat         int32  `json:"lat"`
	Lon         int32  `json:"lon"`
	Alt         int32  `json:"alt"`
	RelativeAlt int32  `json:"relative_alt"`
	Vx          int16  `json:"vx"`
	Vy          int16  `json:"vy"`
	Vz          int16  `json:"vz"`
	Hdg         uint16 `json:"hdg"`
}

func (GlobalPositionInt) MessageID() uint32 { return 33 }

func (m *GlobalPositionInt) MarshalPayload(e *wire.Encoder) {
	e.PutUint32(m.TimeBootMs)
	e.PutInt32(m.Lat)
	e.PutInt32(m.Lon)
	e.PutInt32(m.Alt)
	e.PutInt32(m.RelativeAlt)
	e.PutInt16(m.Vx)
	e.PutInt16(m.Vy)
	e.PutInt16(m.Vz)
	e.PutUint16(m.Hdg)
}

func (m *GlobalPositionInt) UnmarshalPayload(d *wire.Decoder) {
	m.TimeBootMs = d.Uint32()
	m.Lat = d.Int32()
	m.Lon = d.Int32()
	m.Alt = d.Int32()
	m.RelativeAlt = d.Int32()
	m.Vx = d.Int16()
	m.Vy = d.Int16()
	m.Vz = d.Int16()
	m.Hdg = d.Uint16()
}

// CommandLong is COMMAND_LONG (76).
type CommandLong struct {
	Param1          float32           `json:"param1"`
	Param2          float32           `json:"param2"`
	Param3          float32           `json:"param3"`
	Param4          float32           `json:"param4"`
	Param5          float32           `json:"param5"`
	Param6          float32           `json:"param6"`
	Param7          float32           `json:"param7"`
	Command         wire.Enum[MavCmd] `json:"command"`
	TargetSystem    uint8             `json:"target_system"`
	TargetComponent uint8             `json:"target_component"`
	Confirmation    uint8             `json:"confirmation"`
}

func (CommandLong) MessageID() uint32 { return 76 }

func (m *CommandLong) MarshalPayload(e *wire.Encoder) {
	e.PutFloat32(m.Param1)
	e.PutFloat32(m.Param2)
	e.PutFloat32(m.Param3)
	e.PutFloat32(m.Param4)
	e.PutFloat32(m.Param5)
	e.PutFloat32(m.Param6)
	e.PutFloat32(m.Param7)
	e.PutEnum(m.Command.Raw, 2)
	e.PutUint8(m.TargetSystem)
	e.PutUint8(m.TargetComponent)
	e.PutUint8(m.Confirmation)
}

func (m *CommandLong) UnmarshalPayload(d *wire.Decoder) {
	m.Param1 = d.Float32()
	m.Param2 = d.Float32()
	m.Param3 = d.Float32()
	m.Param4 = d.Float32()
	m.Param5 = d.Float32()
	m.Param6 = d.Float32()
	m.Param7 = d.Float32()
	m.Command = MavCmdEntries.Decode(d.Enum(2))
	m.TargetSystem = d.Uint8()
	m.TargetComponent = d.Uint8()
	m.Confirmation = d.Uint8()
}

// CommandAck is COMMAND_ACK (77).
type CommandAck struct {
	Command wire.Enum[MavCmd]    `json:"command"`
	Result  wire.Enum[MavResult] `json:"result"`
	// extensions
	Progress        uint8 `json:"progress"`
	ResultParam2    int32 `json:"result_param2"`
	TargetSystem    uint8 `json:"target_system"`
	TargetComponent uint8 `json:"target_component"`
}

func (CommandAck) MessageID() uint32 { return 77 }

func (m *CommandAck) MarshalPayload(e *wire.Encoder) {
	e.PutEnum(m.Command.Raw, 2)
	e.PutEnum(m.Result.Raw, 1)
	e.PutUint8(m.Progress)
	e.PutInt32(m.ResultParam2)
	e.PutUint8(m.TargetSystem)
	e.PutUint8(m.TargetComponent)
}

func (m *CommandAck) UnmarshalPayload(d *wire.Decoder) {
	m.Command = MavCmdEntries.Decode(d.Enum(2))
	m.Result = MavResultEntries.Decode(d.Enum(1))
	m.Progress = d.Uint8()
	m.ResultParam2 = d.Int32()
	m.TargetSystem = d.Uint8()
	m.TargetComponent = d.Uint8()
}

// Statustext is STATUSTEXT (253).
type Statustext struct {
	Severity wire.Enum[MavSeverity] `json:"severity"`
	Text     string                 `json:"text"`
	// extensions
	ID       uint16 `json:"id"`
	ChunkSeq uint8  `json:"chunk_seq"`
}

func (Statustext) MessageID() uint32 { return 253 }

func (m *Statustext) MarshalPayload(e *wire.Encoder) {
	e.PutEnum(m.Severity.Raw, 1)
	e.PutString(m.Text, 50)
	e.PutUint16(m.ID)
	e.PutUint8(m.ChunkSeq)
}

func (m *Statustext) UnmarshalPayload(d *wire.Decoder) {
	m.Severity = MavSeverityEntries.Decode(d.Enum(1))
	m.Text = d.String(50)
	m.ID = d.Uint16()
	m.ChunkSeq = d.Uint8()
}
