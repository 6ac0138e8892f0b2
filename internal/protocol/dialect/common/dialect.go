// Package common is a subset of the common message set, in the shape the
// dialect generator emits.
package common

import "github.com/danmuck/mavlink/internal/protocol/dialect"

const (
	HeartbeatID         uint32 = 0
	SysStatusID         uint32 = 1
	ParamValueID        uint32 = 22
	AttitudeID          uint32 = 30
	GlobalPositionIntID uint32 = 33
	CommandLongID       uint32 = 76
	CommandAckID        uint32 = 77
	StatustextID        uint32 = 253
)

// Dialect is the registry of every message in this package.
var Dialect = dialect.MustRegistry("common",
	dialect.Entry[Heartbeat](HeartbeatID, "HEARTBEAT", 50, 9),
	dialect.Entry[SysStatus](SysStatusID, "SYS_STATUS", 124, 31),
	dialect.Entry[ParamValue](ParamValueID, "PARAM_VALUE", 220, 25),
	dialect.Entry[Attitude](AttitudeID, "ATTITUDE", 39, 28),
	dialect.Entry[GlobalPositionInt](GlobalPositionIntID, "GLOBAL_POSITION_INT", 104, 28),
	dialect.Entry[CommandLong](CommandLongID, "COMMAND_LONG", 152, 33),
	dialect.Entry[CommandAck](CommandAckID, "COMMAND_ACK", 143, 10),
	dialect.Entry[Statustext](StatustextID, "STATUSTEXT", 83, 54),
)
