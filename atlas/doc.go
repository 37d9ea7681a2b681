// Package atlas packs rasterized glyphs into a single-channel coverage
// texture shared by any number of fonts.
//
// Regions are allocated on shelves and never freed. When the texture runs
// out of room it doubles in height, up to Config.MaxHeight; after that
// Allocate fails with ErrAtlasFull.
//
// All writes happen inside Edit, which holds the atlas lock for the whole
// callback so that an allocation and the pixel writes that fill it are
// atomic with respect to other fonts sharing the atlas:
//
//	err := a.Edit(func(ed atlas.Editor) error {
//	    pos, err := ed.Allocate(w, h)
//	    if err != nil {
//	        return err
//	    }
//	    pix := ed.Pixels()
//	    pix.Pix[pix.PixOffset(pos.X, pos.Y)] = 255
//	    return nil
//	})
//
// Renderers poll TakeDirty to find the region that needs re-uploading and
// use TextureDescriptor to size the GPU texture.
package atlas
