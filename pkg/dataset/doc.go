// Package dataset holds the inputs of a placement run: the elements of every
// column with their display payload, and the relation matrix between them.
//
// # Overview
//
// A [Dataset] describes depth columns of width elements each. Element
// (column, row) sits at index width*column+row of [Dataset.Elements] and of
// both axes of the relation matrix. The placement engine only reads the
// matrix; labels and colours are carried for renderers.
//
// # Generators
//
// [Generate] builds synthetic datasets, deterministic for a given seed:
//
//   - palette: every element is a random colour; affinity is one minus the
//     CIELAB distance, so similar colours attract
//   - bands: colours follow a gradient down each column and affinity falls
//     off with the difference in original row
//   - random: uniform affinities in [-1, 1) and random colours
//
// # JSON Format
//
//	{
//	  "width": 3,
//	  "depth": 2,
//	  "generator": "palette",
//	  "seed": 42,
//	  "elements": [
//	    {"column": 0, "row": 0, "color": "#a83f2c"},
//	    ...
//	  ],
//	  "relations": [[1, 0.42, ...], ...]
//	}
//
// Use [ImportJSON]/[ReadJSON] to load a dataset and [ExportJSON]/[WriteJSON]
// to save one. Reads validate the shape: width*depth elements, each at the
// index its column and row imply, and a square matrix of the same size.
package dataset
