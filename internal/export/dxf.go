package export

import (
	"fmt"

	"github.com/piwi3910/RollSlit/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
)

// DXF layer names.
const (
	LayerRoll  = "ROLL"
	LayerBlock = "BLOCK"
	LayerSlit  = "SLIT"
	LayerText  = "TEXT"
)

// rollGap separates consecutive rolls in the drawing, in width units.
const rollGap = 2.0

// ExportDXF writes a slitting drawing of every used roll. X runs along the
// roll length and Y across its width, both in the roll's own units. Each
// block gets one slit line per item boundary.
func ExportDXF(path string, result model.Result) error {
	if _, err := planTable(result); err != nil {
		return err
	}

	d := dxf.NewDrawing()
	layers := []struct {
		name string
		col  color.ColorNumber
	}{
		{LayerRoll, color.White},
		{LayerBlock, color.Cyan},
		{LayerSlit, color.Red},
		{LayerText, color.Yellow},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.col, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("add layer %s: %w", l.name, err)
		}
	}

	s := result.Solution
	y := 0.0
	for _, roll := range s.Rolls {
		if roll.IsEmpty() {
			continue
		}
		if err := drawRoll(d, s, roll, y); err != nil {
			return fmt.Errorf("roll %s: %w", roll.ID, err)
		}
		y += roll.Width + rollGap
	}

	return d.SaveAs(path)
}

func drawRoll(d *drawing.Drawing, s *model.Solution, roll model.Roll, y0 float64) error {
	d.ChangeLayer(LayerRoll)
	if err := rect(d, 0, y0, roll.TotalLength, roll.Width); err != nil {
		return err
	}

	textHeight := roll.Width / 10
	d.ChangeLayer(LayerText)
	if _, err := d.Text(roll.ID, 0, y0+roll.Width+textHeight/2, 0, textHeight); err != nil {
		return err
	}

	for bi, b := range roll.Blocks {
		x0 := float64(bi) * roll.AllocatedLength
		if bi > 0 {
			d.ChangeLayer(LayerBlock)
			if _, err := d.Line(x0, y0, 0, x0, y0+roll.Width, 0); err != nil {
				return err
			}
		}
		if len(b.Items) == 0 {
			continue
		}

		d.ChangeLayer(LayerSlit)
		widths := sortedWidths(s, b)
		offset := 0.0
		for _, w := range widths {
			offset += w
			if offset >= roll.Width-model.WidthEpsilon {
				break
			}
			if _, err := d.Line(x0, y0+offset, 0, x0+b.Length, y0+offset, 0); err != nil {
				return err
			}
		}

		d.ChangeLayer(LayerText)
		label := fmt.Sprintf("B%d", bi+1)
		if _, err := d.Text(label, x0+b.Length/20, y0+textHeight/2, 0, textHeight); err != nil {
			return err
		}
	}
	return nil
}

func rect(d *drawing.Drawing, x, y, w, h float64) error {
	corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return err
		}
	}
	return nil
}
