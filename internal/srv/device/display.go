package device

import (
	"image"
	"image/png"
	"os"
	"sync"

	"github.com/jypelle/oledstat/internal/srv/config"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"
)

// Display drives a ssd1306 oled over i2c. In simulation mode the buffer is
// written to a png file instead.
type Display struct {
	oledLock    sync.Mutex
	oledDisplay *ssd1306.Dev
	i2cBus      i2c.BusCloser

	param            config.DisplayParam
	simulationMode   bool
	snapshotFilename string

	buffer *image1bit.VerticalLSB
}

func NewDisplay(param config.DisplayParam, simulationMode bool, snapshotFilename string) *Display {
	return &Display{
		param:            param,
		simulationMode:   simulationMode,
		snapshotFilename: snapshotFilename,
		buffer:           image1bit.NewVerticalLSB(image.Rect(0, 0, param.Width, param.Height)),
	}
}

// Start opens the panel. Any error means the display is unusable.
func (d *Display) Start() error {
	logrus.Infof("Start display device")

	if d.simulationMode {
		logrus.Infof("Simulated display, frames are written to %s", d.snapshotFilename)
		return nil
	}

	if _, err := host.Init(); err != nil {
		return errors.Wrap(err, "unable to initialize host drivers")
	}

	var err error
	// Open a handle to the configured (or first available) I²C bus
	d.i2cBus, err = i2creg.Open(d.param.I2cBus)
	if err != nil {
		return errors.Wrap(err, "unable to open i2c bus")
	}

	opts := ssd1306.DefaultOpts
	opts.W = d.param.Width
	opts.H = d.param.Height
	opts.Rotated = d.param.Rotated

	d.oledDisplay, err = ssd1306.NewI2C(d.i2cBus, &opts)
	if err != nil {
		d.i2cBus.Close()
		return errors.Wrap(err, "unable to initialize oled display")
	}

	if err = d.oledDisplay.SetContrast(d.param.Contrast); err != nil {
		logrus.Warnf("Unable to set contrast: %v", err)
	}
	return nil
}

func (d *Display) Stop() {
	logrus.Infof("Stop display device")

	if d.simulationMode {
		return
	}

	d.oledLock.Lock()
	defer d.oledLock.Unlock()
	if d.i2cBus != nil {
		d.i2cBus.Close()
	}
}

func (d *Display) Bounds() image.Rectangle {
	return d.buffer.Bounds()
}

func (d *Display) Erase() {
	for i := range d.buffer.Pix {
		d.buffer.Pix[i] = 0
	}
}

func (d *Display) DrawText(x, y int, text string) {
	AddLabel(d.buffer, x, y+LabelAscent(), text)
}

func (d *Display) Present() error {
	if d.simulationMode {
		return d.writeSnapshot()
	}

	d.oledLock.Lock()
	defer d.oledLock.Unlock()
	if d.oledDisplay == nil {
		return errors.New("display not started")
	}
	return d.oledDisplay.Draw(d.oledDisplay.Bounds(), d.buffer, image.Point{})
}

func (d *Display) Clear() error {
	d.Erase()
	return d.Present()
}

// Image returns the current content of the off-screen buffer.
func (d *Display) Image() image.Image {
	return d.buffer
}

func (d *Display) writeSnapshot() error {
	if d.snapshotFilename == "" {
		return nil
	}
	file, err := os.Create(d.snapshotFilename)
	if err != nil {
		return errors.Wrap(err, "unable to create snapshot")
	}
	defer file.Close()
	if err = png.Encode(file, d.buffer); err != nil {
		return errors.Wrap(err, "unable to encode snapshot")
	}
	return nil
}
