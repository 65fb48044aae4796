// Package serialization stores grids losslessly in the .cgrid format.
//
// BMP output quantises a decomposition to 8 bits; .cgrid keeps the float64
// values together with how they were produced:
//
//	Format Structure:
//	  [4 bytes: Magic "CGRD"]
//	  [4 bytes: Version (uint32 LE)]
//	  [4 bytes: Flags (uint32 LE)]
//	  [4 bytes: Reserved]
//	  [8 bytes: Header Size (uint64 LE)]
//	  [8 bytes: Data Size (uint64 LE)]
//	  [32 bytes: SHA-256 of the data section]
//	  [Header: JSON metadata]
//	  [Grid data: float64 LE, row-major, 64-byte aligned]
//
// Example usage:
//
//	err := serialization.WriteFile("0.cgrid", serialization.Header{Solve: &meta},
//	    serialization.Named("fringes", res.Reconstruction),
//	    serialization.Named("background", bg))
//
//	file, err := serialization.ReadFile("0.cgrid")
//	fringes, err := file.Grid("fringes")
package serialization
