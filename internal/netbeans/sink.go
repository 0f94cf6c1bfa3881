package netbeans

// NetBeans commands issued by this package. The literal names and the
// argument shapes built around them are the wire contract with the
// editor-side protocol handler.
const (
	cmdEditFile           = "editFile"
	cmdPutBufferNumber    = "putBufferNumber"
	cmdStopDocumentListen = "stopDocumentListen"
	cmdDefineAnnoType     = "defineAnnoType"
	cmdAddAnno            = "addAnno"
	cmdRemoveAnno         = "removeAnno"
	cmdSetDot             = "setDot"
)

// frameLabel is the gutter text declared for the frame annotation type.
const frameLabel = "=>"

// Palette holds the three background color tokens used verbatim in
// annotation type declarations.
type Palette struct {
	// Enabled is the background of an enabled breakpoint.
	Enabled string

	// Disabled is the background of a disabled breakpoint.
	Disabled string

	// Frame is the background of the current execution point.
	Frame string
}

// DefaultPalette returns the stock sign colors.
func DefaultPalette() Palette {
	return Palette{
		Enabled:  "Cyan",
		Disabled: "Green",
		Frame:    "Magenta",
	}
}

// Sink carries typed commands to the editor and allocates the serial
// numbers that identify placed annotations. Implementations must treat
// SendCmd as fire-and-forget: the core never consumes a result and
// assumes the send cannot fail observably.
type Sink interface {
	// SendCmd sends a command scoped to buf. A nil buf addresses the
	// protocol connection itself (buffer number zero).
	SendCmd(buf *Buffer, cmd, args string)

	// NextSernum returns a fresh serial number. Serial numbers are
	// strictly increasing and start at 1.
	NextSernum() int

	// Colors returns the background color tokens for annotation type
	// declarations.
	Colors() Palette
}
