// Package render draws simulation frames onto a [Surface].
//
// A [Renderer] paints the sea background, decorative waves, every live
// particle and finally the overlay of the active model. Surfaces exist
// for the terminal (braille), SVG export and the raylib window; all of
// them speak in surface pixels while frames speak in simulation units,
// so the renderer scales between the two.
package render
