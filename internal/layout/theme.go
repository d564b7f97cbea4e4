package layout

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// RGB 0-255 颜色三元组，排版引擎的唯一颜色表示
type RGB struct {
	R, G, B uint8
}

var (
	Black = RGB{0, 0, 0}
	White = RGB{255, 255, 255}

	// 次级装饰用的固定调色板，与主题色无关
	MutedText  = RGB{100, 116, 139}
	LightBG    = RGB{248, 250, 252}
	Border     = RGB{226, 232, 240}
	HintAmber  = RGB{217, 119, 6}
	HintTintBG = RGB{255, 251, 235}
)

// Theme 排版引擎使用的配色。主题色来自 Activity 声明，
// 其余为统一的次级装饰色。
type Theme struct {
	Primary RGB
	Muted   RGB
	Light   RGB
	Border  RGB
	Hint    RGB
	HintBG  RGB
}

// ResolveTheme 从十六进制主色派生主题。主题是纯装饰，
// 任何解析失败都回退到黑色而不是报错。
func ResolveTheme(primaryHex string) Theme {
	return Theme{
		Primary: ParseHexColor(primaryHex),
		Muted:   MutedText,
		Light:   LightBG,
		Border:  Border,
		Hint:    HintAmber,
		HintBG:  HintTintBG,
	}
}

// ParseHexColor 严格解析 #RRGGBB（# 可省略），失败返回黑色
func ParseHexColor(s string) RGB {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Black
	}
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 3 {
		return Black
	}
	return RGB{raw[0], raw[1], raw[2]}
}

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
