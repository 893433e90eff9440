package cli

import (
	"fmt"
	"strings"

	fitimage "outline-fit/internal/image"
	"outline-fit/internal/placement"
	"outline-fit/internal/upload"
	"outline-fit/pkg/colorutil"
	"outline-fit/pkg/geometry"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type placeOptions struct {
	nudges  []string
	zoomIn  int
	zoomOut int
	overlay string
	out     string
}

func newPlaceCommand(rt *runtime) *cobra.Command {
	opts := &placeOptions{}
	cmd := &cobra.Command{
		Use:   "place IMAGE",
		Short: "Apply nudges and zoom steps to an image and print the render transform",
		Long: `Loads IMAGE into a placement session, applies the nudges in order and
then the zoom steps, and prints the resulting transform. With --out the
composited viewport (photo under the outline) is written as PNG or WebP.

Example:
  outline-fit place photo.jpg --nudge right,right --zoom-in 3 --out fit.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlace(cmd, rt, opts, args[0])
		},
	}
	cmd.Flags().StringSliceVar(&opts.nudges, "nudge", nil, "nudge directions: up, down, left, right")
	cmd.Flags().IntVar(&opts.zoomIn, "zoom-in", 0, "number of zoom-in steps")
	cmd.Flags().IntVar(&opts.zoomOut, "zoom-out", 0, "number of zoom-out steps")
	cmd.Flags().StringVar(&opts.overlay, "overlay", "", "outline template image (defaults to overlay.path or the built-in outline)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the composited viewport to this .png or .webp file")
	return cmd
}

func runPlace(cmd *cobra.Command, rt *runtime, opts *placeOptions, path string) error {
	capturer := upload.Capturer{MaxBytes: rt.cfg.Upload.MaxBytes}
	data, ok, err := capturer.CaptureFile(path)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: not an image file", path)
	}

	session := placement.NewSession(rt.cfg.SessionConfig(), upload.Decoder{MaxPixels: rt.cfg.Upload.MaxPixels}, rt.logger)
	if err := session.LoadImage(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	for _, name := range opts.nudges {
		dir := geometry.ParseDirection(strings.TrimSpace(name))
		if dir == geometry.DirectionNone {
			rt.logger.Warn("ignoring unknown direction", zap.String("direction", name))
			continue
		}
		session.Nudge(dir)
	}
	for i := 0; i < opts.zoomIn; i++ {
		session.ZoomIn()
	}
	for i := 0; i < opts.zoomOut; i++ {
		session.ZoomOut()
	}

	t, _ := session.CurrentTransform()
	asset := session.Asset()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "image: %s %s\n", asset.Format, asset.Size())
	fmt.Fprintf(out, "initial: top=%g left=%g\n", session.InitialOffset().Top, session.InitialOffset().Left)
	fmt.Fprintf(out, "pan: top=%d left=%d\n", session.Pan().Top, session.Pan().Left)
	fmt.Fprintln(out, t)

	if opts.out == "" {
		return nil
	}
	overlay, err := loadOverlay(rt, opts.overlay)
	if err != nil {
		return err
	}
	img := fitimage.RenderPlacement(session.Config().Viewport, asset, t, overlay)
	if err := fitimage.Save(opts.out, img); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s\n", opts.out)
	return nil
}

func loadOverlay(rt *runtime, path string) (*fitimage.Layer, error) {
	viewport := rt.cfg.SessionConfig().Viewport
	if path == "" {
		path = rt.cfg.Overlay.Path
	}

	template := fitimage.DefaultOverlay(viewport)
	if path != "" {
		img, err := fitimage.LoadOverlay(path, viewport)
		if err != nil {
			return nil, fmt.Errorf("overlay: %w", err)
		}
		template = img
	}

	backdrop, err := colorutil.ParseHex(rt.cfg.Overlay.Backdrop)
	if err != nil {
		return nil, err
	}
	return fitimage.OverlayLayer(template, viewport, rt.cfg.Overlay.Opacity, backdrop), nil
}
