// Package xnb implements the XNB compiled content container.
//
// An XNB file is a 10 byte header followed by a payload:
//
//	offset 0  "XNB"
//	offset 3  platform tag (one byte, see Platform)
//	offset 4  format version (4 = XNA 3.1, 5 = XNA 4.0)
//	offset 5  flags (0x01 HiDef, 0x40 LZ4, 0x80 LZX)
//	offset 6  int32 LE total file size
//	offset 10 int32 LE decompressed payload size, compressed files only
//
// The payload, once decompressed, is the type reader table followed by the
// object stream; package content interprets it.
package xnb

import "fmt"

const (
	// Signature is the fixed three byte file magic.
	Signature = "XNB"

	// Extension is appended to asset names to locate compiled content.
	Extension = ".xnb"

	// VersionXNA31 and VersionXNA40 are the supported format versions.
	VersionXNA31 byte = 4
	VersionXNA40 byte = 5

	FlagHiDef         byte = 0x01
	FlagCompressedLZ4 byte = 0x40
	FlagCompressedLZX byte = 0x80

	headerSize           = 10
	compressedHeaderSize = 14
)

// Platform is the one byte target platform tag following the signature.
type Platform byte

const (
	PlatformWindows           Platform = 'w'
	PlatformXbox360           Platform = 'x'
	PlatformWindowsPhone      Platform = 'm'
	PlatformDesktopGL         Platform = 'd'
	PlatformAndroid           Platform = 'a'
	PlatformIOS               Platform = 'i'
	PlatformNativeClient      Platform = 'n'
	PlatformRaspberryPi       Platform = 'r'
	PlatformPlayStation4      Platform = 'p'
	PlatformPSVita            Platform = 'v'
	PlatformWindowsPhone8     Platform = 'M'
	PlatformMacOSX            Platform = 'X'
	PlatformWindowsStore      Platform = 'W'
	PlatformPlayStationMobile Platform = 'P'
	PlatformXboxOne           Platform = 'O'
	PlatformSwitch            Platform = 'S'
	PlatformStadia            Platform = 'G'
	PlatformWebGL             Platform = 'b'
)

var platformNames = map[Platform]string{
	PlatformWindows:           "Windows",
	PlatformXbox360:           "Xbox360",
	PlatformWindowsPhone:      "WindowsPhone",
	PlatformDesktopGL:         "DesktopGL",
	PlatformAndroid:           "Android",
	PlatformIOS:               "iOS",
	PlatformNativeClient:      "NativeClient",
	PlatformRaspberryPi:       "RaspberryPi",
	PlatformPlayStation4:      "PlayStation4",
	PlatformPSVita:            "PSVita",
	PlatformWindowsPhone8:     "WindowsPhone8",
	PlatformMacOSX:            "MacOSX",
	PlatformWindowsStore:      "WindowsStore",
	PlatformPlayStationMobile: "PlayStationMobile",
	PlatformXboxOne:           "XboxOne",
	PlatformSwitch:            "Switch",
	PlatformStadia:            "Stadia",
	PlatformWebGL:             "WebGL",
}

// Known reports whether p is in the platform whitelist.
func (p Platform) Known() bool {
	_, ok := platformNames[p]
	return ok
}

func (p Platform) String() string {
	if name, ok := platformNames[p]; ok {
		return name
	}
	return fmt.Sprintf("platform(%q)", byte(p))
}
