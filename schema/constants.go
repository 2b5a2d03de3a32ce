package schema

// Custom string types for type safety.
type (
	// ScaleID identifies one of the clinical scales plotted on the session chart.
	ScaleID string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for drafts and revisions.
	DatabaseBackend string

	// MessageCode is the machine-readable outcome code carried by store responses.
	MessageCode string
)

// All clinical scales, in chart order.
const (
	ScaleVQR  ScaleID = "VQR"
	ScalePEQR ScaleID = "PEQR"
	ScaleIQR  ScaleID = "IQR"
	ScaleTQR  ScaleID = "TQR"
)

// AllScales lists the scales in their fixed ordinal order.
var AllScales = []ScaleID{ScaleVQR, ScalePEQR, ScaleIQR, ScaleTQR}

// DefaultScaleColors are the colors assigned to each scale when a session is created.
var DefaultScaleColors = map[ScaleID]string{
	ScaleVQR:  "#184cf7",
	ScalePEQR: "red",
	ScaleIQR:  "orange",
	ScaleTQR:  "green",
}

// Ordinal returns the position of the scale in AllScales, or -1 when unknown.
func (s ScaleID) Ordinal() int {
	for i, scale := range AllScales {
		if scale == s {
			return i
		}
	}
	return -1
}

// Valid reports whether the scale belongs to the fixed enumeration.
func (s ScaleID) Valid() bool {
	return s.Ordinal() >= 0
}

// Level bounds for every scale.
const (
	MinLevel = 0
	MaxLevel = 6
)

// Chart axis bounds, expressed as a percentage of the session duration.
const (
	MinPercent = 0.0
	MaxPercent = 100.0
)

// Fixed vertical positions of annotations below the series.
const (
	CommentY = -0.1
	BreakY   = -0.3
)

// Chart zoom bounds, in pixels.
const (
	DefaultZoomWidth = 800
	MinZoomWidth     = 250
	MaxZoomWidth     = 15000
	ZoomStep         = 100
)

// HistoryLimit is the maximum number of snapshots kept by the undo log.
const HistoryLimit = 50

// DefaultLineOffset separates the series vertically on the shared axis.
const DefaultLineOffset = 0.05

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Message codes returned by the vault. They match the codes the desktop client localizes.
const (
	MsgVaultPathNotSelected          MessageCode = "VAULTPATHNOTSELECTED"
	MsgVaultPathNotExists            MessageCode = "VAULTPATHNOTEXISTS"
	MsgVaultPathNotADirectory        MessageCode = "VAULTPATHNOTADIRECTORY"
	MsgVaultPathNotEmpty             MessageCode = "VAULTPATHNOTEMPTY"
	MsgVaultPathNotContainsVaultJSON MessageCode = "VAULTPATHNOTCONTAINSVAULTJSON"
	MsgVaultPathNotContainsPatient   MessageCode = "VAULTPATHNOTCONTAINSPATIENTJSON"
	MsgVaultPathValid                MessageCode = "VAULTPATHVALID"
	MsgVaultCreated                  MessageCode = "VAULTCREATED"
	MsgDirectorySelected             MessageCode = "DIRECTORYSELECTED"

	MsgNamesRequired           MessageCode = "NAMESREQUIRED"
	MsgPatientExists           MessageCode = "PATIENTEXISTS"
	MsgPatientNotExists        MessageCode = "PATIENTNOTEXISTS"
	MsgPatientPathNotDirectory MessageCode = "PATIENTPATHNOTDIRECTORY"
	MsgErrorCreatePatientPath  MessageCode = "ERRORCREATEPATIENTPATH"
	MsgErrorUpdatePatientData  MessageCode = "ERRORUPDATEPATIENTDATA"
	MsgErrorDeletePatient      MessageCode = "ERRORDELETEPATIENT"
	MsgPatientCreated          MessageCode = "PATIENTCREATED"
	MsgPatientUpdated          MessageCode = "PATIENTUPDATED"
	MsgPatientDeleted          MessageCode = "PATIENTDELETED"

	MsgSessionPathNotExists       MessageCode = "SESSIONPATHNOTEXISTS"
	MsgSessionPathNotFile         MessageCode = "SESSIONPATHNOTFILE"
	MsgSessionFileNotValidJSON    MessageCode = "SESSIONFILENOTVALIDJSON"
	MsgSessionFileNotValidSession MessageCode = "SESSIONFILENOTVALIDSESSIONJSON"
	MsgSessionFileNotExists       MessageCode = "SESSIONFILENOTEXISTS"
	MsgCreateSessionFileError     MessageCode = "CREATESESSIONFILEERROR"
	MsgErrorDeleteSession         MessageCode = "ERRORDELETESESSION"
	MsgSessionCreated             MessageCode = "SESSIONCREATED"
	MsgSessionSaved               MessageCode = "SESSIONSAVED"
	MsgSessionDataSaved           MessageCode = "SESSIONDATASAVED"
	MsgSessionDataRetrieved       MessageCode = "SESSIONDATARETRIEVED"
	MsgSessionsRetrieved          MessageCode = "SESSIONSRETRIEVED"
	MsgSessionDeleted             MessageCode = "SESSIONDELETED"

	MsgSessionOpened    MessageCode = "SESSIONOPENED"
	MsgSessionClosed    MessageCode = "SESSIONCLOSED"
	MsgNoSessionOpen    MessageCode = "NOSESSIONOPEN"
	MsgStateRetrieved   MessageCode = "STATERETRIEVED"
	MsgStatsRetrieved   MessageCode = "STATSRETRIEVED"
	MsgEditApplied      MessageCode = "EDITAPPLIED"
	MsgEditRejected     MessageCode = "EDITREJECTED"
	MsgDraftRestored    MessageCode = "DRAFTRESTORED"
	MsgDraftUnavailable MessageCode = "DRAFTUNAVAILABLE"
)
