package editor

// Tool はキャンバスに対するポインタ操作の解釈です。
type Tool int

const (
	ToolSelect Tool = iota
	ToolWand
	ToolBrush
	ToolAdjust
)

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolWand:
		return "wand"
	case ToolBrush:
		return "brush"
	case ToolAdjust:
		return "adjust"
	default:
		return "unknown"
	}
}

// ToolController は現在のツールと Busy 状態を管理します。
// 呼び出し側 (Editor) のロックの下で使います。
type ToolController struct {
	current Tool
	busy    bool
	// acted は現在のツールに切り替えてから選択操作が行われたかを表します。
	acted bool
}

// Current は現在のツールです。
func (c *ToolController) Current() Tool { return c.current }

// Busy は編集要求が送信中かどうかを返します。
func (c *ToolController) Busy() bool { return c.busy }

// Select はユーザーによる明示的なツール選択です。Busy の間は切り替えられません。
// 戻り値は、選択操作をしないまま自動選択かブラシを離れたかどうかです。
func (c *ToolController) Select(t Tool) (abandoned bool, err error) {
	if c.busy {
		return false, ErrBusy
	}
	if t == c.current {
		return false, nil
	}
	abandoned = (c.current == ToolWand || c.current == ToolBrush) && !c.acted
	c.current = t
	c.acted = false
	return abandoned, nil
}

// completed は自動選択やブラシの操作が終わったときに呼ばれ、選択ツールに戻します。
func (c *ToolController) completed() {
	c.acted = true
	c.current = ToolSelect
}

// reset は編集結果の適用後に選択ツールへ戻します。
func (c *ToolController) reset() {
	c.current = ToolSelect
	c.acted = false
}

func (c *ToolController) acquire() error {
	if c.busy {
		return ErrBusy
	}
	c.busy = true
	return nil
}

// release は Busy を解除し、解除したかどうかを返します。
func (c *ToolController) release() bool {
	was := c.busy
	c.busy = false
	return was
}
