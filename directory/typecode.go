package directory

// TypeCode is the one-byte value at offset 1 of a directory entry.
type TypeCode uint8

// Type codes, per the GLOSSARY.
const (
	TypeUnused       TypeCode = 0
	TypeOSEPS        TypeCode = 1
	TypeSubDirectory TypeCode = 2
	TypeInstrument   TypeCode = 3
	TypeBankEPS      TypeCode = 4
	TypeSequenceEPS  TypeCode = 5
	TypeSongEPS      TypeCode = 6
	TypeSysex        TypeCode = 7
	TypeParentPtr    TypeCode = 8
	TypeMacroEPS     TypeCode = 9

	TypeEffectEPS16    TypeCode = 24
	TypeBankEPS16      TypeCode = 23
	TypeSequenceEPS16  TypeCode = 25
	TypeSongEPS16      TypeCode = 26
	TypeOSEPS16        TypeCode = 27
	TypeBankASR        TypeCode = 30
	TypeAudioTrackASR  TypeCode = 31
	TypeOSASR          TypeCode = 32
	TypeEffectASR      TypeCode = 33
	TypeMacroASR       TypeCode = 34
	TypeWorkstationMin TypeCode = 35
	TypeWorkstationMax TypeCode = 43
)

// IsOSFile reports whether t is one of the three operating-system file
// type codes (EPS, EPS-16, ASR).
func (t TypeCode) IsOSFile() bool {
	return t == TypeOSEPS || t == TypeOSEPS16 || t == TypeOSASR
}

// IsInstrument reports whether t identifies an instrument file, the only
// type the splitter/joiner (component J) operates on.
func (t TypeCode) IsInstrument() bool {
	return t == TypeInstrument
}

// IsSubDirectory reports whether t identifies a sub-directory slot.
func (t TypeCode) IsSubDirectory() bool {
	return t == TypeSubDirectory
}

// shortNames gives the human-readable, space-padded 7-byte type string
// the extraction engine writes into an archival file's preamble.
var shortNames = map[TypeCode]string{
	TypeOSEPS:        "EPS OS ",
	TypeSubDirectory: "SUBDIR ",
	TypeInstrument:   "INSTR  ",
	TypeBankEPS:      "BANK   ",
	TypeSequenceEPS:  "SEQ    ",
	TypeSongEPS:      "SONG   ",
	TypeSysex:        "SYSEX  ",
	TypeParentPtr:    "PARENT ",
	TypeMacroEPS:     "MACRO  ",
	TypeEffectEPS16:  "EFFECT ",
	TypeBankEPS16:    "BANK16 ",
	TypeSequenceEPS16: "SEQ16  ",
	TypeSongEPS16:    "SONG16 ",
	TypeOSEPS16:      "EPS16OS",
	TypeBankASR:      "BANKASR",
	TypeAudioTrackASR: "AUDIO  ",
	TypeOSASR:        "ASR OS ",
	TypeEffectASR:    "EFFCASR",
	TypeMacroASR:     "MACRASR",
}

// ShortName returns the 7-character, space-padded human-readable type
// string for t, or "UNKNOWN" if t has no known mapping.
func (t TypeCode) ShortName() string {
	if s, ok := shortNames[t]; ok {
		return s
	}
	if t >= TypeWorkstationMin && t <= TypeWorkstationMax {
		return "WKSTN  "
	}
	return "UNKNOWN"
}
