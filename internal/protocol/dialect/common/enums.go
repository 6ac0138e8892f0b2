package common

import "github.com/danmuck/mavlink/internal/protocol/wire"

// MavType is MAV_TYPE.
type MavType uint32

const (
	MavTypeGeneric        MavType = 0
	MavTypeFixedWing      MavType = 1
	MavTypeQuadrotor      MavType = 2
	MavTypeCoaxial        MavType = 3
	MavTypeHelicopter     MavType = 4
	MavTypeAntennaTracker MavType = 5
	MavTypeGCS            MavType = 6
	MavTypeGroundRover    MavType = 10
	MavTypeSurfaceBoat    MavType = 11
	MavTypeSubmarine      MavType = 12
	MavTypeHexarotor      MavType = 13
	MavTypeOctorotor      MavType = 14
)

var MavTypeEntries = wire.Register(wire.EnumEntries[MavType]{
	MavTypeGeneric:        "MAV_TYPE_GENERIC",
	MavTypeFixedWing:      "MAV_TYPE_FIXED_WING",
	MavTypeQuadrotor:      "MAV_TYPE_QUADROTOR",
	MavTypeCoaxial:        "MAV_TYPE_COAXIAL",
	MavTypeHelicopter:     "MAV_TYPE_HELICOPTER",
	MavTypeAntennaTracker: "MAV_TYPE_ANTENNA_TRACKER",
	MavTypeGCS:            "MAV_TYPE_GCS",
	MavTypeGroundRover:    "MAV_TYPE_GROUND_ROVER",
	MavTypeSurfaceBoat:    "MAV_TYPE_SURFACE_BOAT",
	MavTypeSubmarine:      "MAV_TYPE_SUBMARINE",
	MavTypeHexarotor:      "MAV_TYPE_HEXAROTOR",
	MavTypeOctorotor:      "MAV_TYPE_OCTOROTOR",
})

// MavAutopilot is MAV_AUTOPILOT.
type MavAutopilot uint32

const (
	MavAutopilotGeneric       MavAutopilot = 0
	MavAutopilotReserved      MavAutopilot = 1
	MavAutopilotSlugs         MavAutopilot = 2
	MavAutopilotArdupilotmega MavAutopilot = 3
	MavAutopilotOpenpilot     MavAutopilot = 4
	MavAutopilotInvalid       MavAutopilot = 8
	MavAutopilotPX4           MavAutopilot = 12
)

var MavAutopilotEntries = wire.Register(wire.EnumEntries[MavAutopilot]{
	MavAutopilotGeneric:       "MAV_AUTOPILOT_GENERIC",
	MavAutopilotReserved:      "MAV_AUTOPILOT_RESERVED",
	MavAutopilotSlugs:         "MAV_AUTOPILOT_SLUGS",
	MavAutopilotArdupilotmega: "MAV_AUTOPILOT_ARDUPILOTMEGA",
	MavAutopilotOpenpilot:     "MAV_AUTOPILOT_OPENPILOT",
	MavAutopilotInvalid:       "MAV_AUTOPILOT_INVALID",
	MavAutopilotPX4:           "MAV_AUTOPILOT_PX4",
})

// MavState is MAV_STATE.
type MavState uint32

const (
	MavStateUninit            MavState = 0
	MavStateBoot              MavState = 1
	MavStateCalibrating       MavState = 2
	MavStateStandby           MavState = 3
	MavStateActive            MavState = 4
	MavStateCritical          MavState = 5
	MavStateEmergency         MavState = 6
	MavStatePoweroff          MavState = 7
	MavStateFlightTermination MavState = 8
)

var MavStateEntries = wire.Register(wire.EnumEntries[MavState]{
	MavStateUninit:            "MAV_STATE_UNINIT",
	MavStateBoot:              "MAV_STATE_BOOT",
	MavStateCalibrating:       "MAV_STATE_CALIBRATING",
	MavStateStandby:           "MAV_STATE_STANDBY",
	MavStateActive:            "MAV_STATE_ACTIVE",
	MavStateCritical:          "MAV_STATE_CRITICAL",
	MavStateEmergency:         "MAV_STATE_EMERGENCY",
	MavStatePoweroff:          "MAV_STATE_POWEROFF",
	MavStateFlightTermination: "MAV_STATE_FLIGHT_TERMINATION",
})

// MavCmd is MAV_CMD (subset).
type MavCmd uint32

const (
	MavCmdNavWaypoint        MavCmd = 16
	MavCmdNavReturnToLaunch  MavCmd = 20
	MavCmdNavLand            MavCmd = 21
	MavCmdNavTakeoff         MavCmd = 22
	MavCmdDoSetMode          MavCmd = 176
	MavCmdComponentArmDisarm MavCmd = 400
	MavCmdSetMessageInterval MavCmd = 511
	MavCmdRequestMessage     MavCmd = 512
)

var MavCmdEntries = wire.Register(wire.EnumEntries[MavCmd]{
	MavCmdNavWaypoint:        "MAV_CMD_NAV_WAYPOINT",
	MavCmdNavReturnToLaunch:  "MAV_CMD_NAV_RETURN_TO_LAUNCH",
	MavCmdNavLand:            "MAV_CMD_NAV_LAND",
	MavCmdNavTakeoff:         "MAV_CMD_NAV_TAKEOFF",
	MavCmdDoSetMode:          "MAV_CMD_DO_SET_MODE",
	MavCmdComponentArmDisarm: "MAV_CMD_COMPONENT_ARM_DISARM",
	MavCmdSetMessageInterval: "MAV_CMD_SET_MESSAGE_INTERVAL",
	MavCmdRequestMessage:     "MAV_CMD_REQUEST_MESSAGE",
})

// MavResult is MAV_RESULT.
type MavResult uint32

const (
	MavResultAccepted            MavResult = 0
	MavResultTemporarilyRejected MavResult = 1
	MavResultDenied              MavResult = 2
	MavResultUnsupported         MavResult = 3
	MavResultFailed              MavResult = 4
	MavResultInProgress          MavResult = 5
	MavResultCancelled           MavResult = 6
)

var MavResultEntries = wire.Register(wire.EnumEntries[MavResult]{
	MavResultAccepted:            "MAV_RESULT_ACCEPTED",
	MavResultTemporarilyRejected: "MAV_RESULT_TEMPORARILY_REJECTED",
	MavResultDenied:              "MAV_RESULT_DENIED",
	MavResultUnsupported:         "MAV_RESULT_UNSUPPORTED",
	MavResultFailed:              "MAV_RESULT_FAILED",
	MavResultInProgress:          "MAV_RESULT_IN_PROGRESS",
	MavResultCancelled:           "MAV_RESULT_CANCELLED",
})

// MavSeverity is MAV_SEVERITY.
type MavSeverity uint32

const (
	MavSeverityEmergency MavSeverity = 0
	MavSeverityAlert     MavSeverity = 1
	MavSeverityCritical  MavSeverity = 2
	MavSeverityError     MavSeverity = 3
	MavSeverityWarning   MavSeverity = 4
	MavSeverityNotice    MavSeverity = 5
	MavSeverityInfo      MavSeverity = 6
	MavSeverityDebug     MavSeverity = 7
)

var MavSeverityEntries = wire.Register(wire.EnumEntries[MavSeverity]{
	MavSeverityEmergency: "MAV_SEVERITY_EMERGENCY",
	MavSeverityAlert:     "MAV_SEVERITY_ALERT",
	MavSeverityCritical:  "MAV_SEVERITY_CRITICAL",
	MavSeverityError:     "MAV_SEVERITY_ERROR",
	MavSeverityWarning:   "MAV_SEVERITY_WARNING",
	MavSeverityNotice:    "MAV_SEVERITY_NOTICE",
	MavSeverityInfo:      "MAV_SEVERITY_INFO",
	MavSeverityDebug:     "MAV_SEVERITY_DEBUG",
})

// MavParamType is MAV_PARAM_TYPE.
type MavParamType uint32

const (
	MavParamTypeUint8  MavParamType = 1
	MavParamTypeInt8   MavParamType = 2
	MavParamTypeUint16 MavParamType = 3
	MavParamTypeInt16  MavParamType = 4
	MavParamTypeUint32 MavParamType = 5
	MavParamTypeInt32  MavParamType = 6
	MavParamTypeUint64 MavParamType = 7
	MavParamTypeInt64  MavParamType = 8
	MavParamTypeReal32 MavParamType = 9
	MavParamTypeReal64 MavParamType = 10
)

var MavParamTypeEntries = wire.Register(wire.EnumEntries[MavParamType]{
	MavParamTypeUint8:  "MAV_PARAM_TYPE_UINT8",
	MavParamTypeInt8:   "MAV_PARAM_TYPE_INT8",
	MavParamTypeUint16: "MAV_PARAM_TYPE_UINT16",
	MavParamTypeInt16:  "MAV_PARAM_TYPE_INT16",
	MavParamTypeUint32: "MAV_PARAM_TYPE_UINT32",
	MavParamTypeInt32:  "MAV_PARAM_TYPE_INT32",
	MavParamTypeUint64: "MAV_PARAM_TYPE_UINT64",
	MavParamTypeInt64:  "MAV_PARAM_TYPE_INT64",
	MavParamTypeReal32: "MAV_PARAM_TYPE_REAL32",
	MavParamTypeReal64: "MAV_PARAM_TYPE_REAL64",
})
