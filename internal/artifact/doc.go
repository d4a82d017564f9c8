// Package artifact owns the on-disk layout of extracted features.
//
// Each (recording, family) result lives at
// {output_root}/{family_dir}/{recording_stem}.npz: a DEFLATE-compressed zip
// holding one NumPy array named "data", readable with numpy.load. The
// existence of that file is the only completion marker the extraction runner
// trusts.
package artifact
