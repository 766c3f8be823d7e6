package gedcom

// VoidPointer is the GEDCOM 7 null pointer. A structure that carries it
// deliberately points at nothing and mappers skip it.
const VoidPointer = "@VOID@"

// Record tags.
const (
	TagHeader     = "HEAD"
	TagTrailer    = "TRLR"
	TagIndividual = "INDI"
	TagFamily     = "FAM"
	TagSource     = "SOUR"
	TagRepository = "REPO"
	TagSharedNote = "SNOTE"
	TagObject     = "OBJE"
	TagSubmitter  = "SUBM"
)

// Substructure tags used by the reader itself.
const (
	TagContinue = "CONT"
	TagSchema   = "SCHMA"
	TagTag      = "TAG"
	TagDate     = "DATE"
	TagTime     = "TIME"
	TagAge      = "AGE"
)
