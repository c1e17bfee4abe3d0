package i18n

// Message IDs.
const (
	MsgPendingTranslation = "entry.pending.translation"
	MsgPendingNote        = "entry.pending.note"
	MsgFailedTranslation  = "entry.failed.translation"
	MsgFailedNote         = "entry.failed.note"

	MsgFallbackTranslation = "ai.fallback.translation"
	MsgFallbackNote        = "ai.fallback.note"
	MsgMissingTranslation  = "ai.missing.translation"
	MsgMissingNote         = "ai.missing.note"

	MsgImportFailed = "import.failed"
	MsgBusy         = "request.busy"

	UITitle            = "ui.title"
	UISubtitle         = "ui.subtitle"
	UIProgress         = "ui.progress"
	UIAddLabel         = "ui.add.label"
	UIAddPlaceholder   = "ui.add.placeholder"
	UIAddSubmit        = "ui.add.submit"
	UIAddProcessing    = "ui.add.processing"
	UIAddTip           = "ui.add.tip"
	UIListHeading      = "ui.list.heading"
	UIListClear        = "ui.list.clear"
	UIColNo            = "ui.col.no"
	UIColEnglish       = "ui.col.english"
	UIColIndonesian    = "ui.col.indonesian"
	UIColStatus        = "ui.col.status"
	UIColNote          = "ui.col.note"
	UIColAction        = "ui.col.action"
	UIEmptyTitle       = "ui.empty.title"
	UIEmptyHint        = "ui.empty.hint"
	UIConfirmRemove    = "ui.confirm.remove"
	UIConfirmClear     = "ui.confirm.clear"
	UIImportOpen       = "ui.import.open"
	UIImportTitle      = "ui.import.title"
	UIImportHint       = "ui.import.hint"
	UIImportSubmit     = "ui.import.submit"
	UIImportCancel     = "ui.import.cancel"
	UIImportProcessing = "ui.import.processing"
	UIStatusMemorized  = "ui.status.memorized"
	UIStatusLearning   = "ui.status.learning"
	UILegendProcessing = "ui.legend.processing"
	UIExport           = "ui.export"
	UIFooter           = "ui.footer"
)

// Keys lists every message ID the application uses.
var Keys = []string{
	MsgPendingTranslation, MsgPendingNote, MsgFailedTranslation, MsgFailedNote,
	MsgFallbackTranslation, MsgFallbackNote, MsgMissingTranslation, MsgMissingNote,
	MsgImportFailed, MsgBusy,
	UITitle, UISubtitle, UIProgress, UIAddLabel, UIAddPlaceholder, UIAddSubmit,
	UIAddProcessing, UIAddTip, UIListHeading, UIListClear, UIColNo, UIColEnglish,
	UIColIndonesian, UIColStatus, UIColNote, UIColAction, UIEmptyTitle, UIEmptyHint,
	UIConfirmRemove, UIConfirmClear, UIImportOpen, UIImportTitle, UIImportHint,
	UIImportSubmit, UIImportCancel, UIImportProcessing, UIStatusMemorized,
	UIStatusLearning, UILegendProcessing, UIExport, UIFooter,
}
