package fileutil

import "os"

// OwnerReadWrite is the file permission mode for converted records written
// by the CLI (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// ReadableByAll is the file permission mode for records written on behalf
// of other tools that need to read them back.
const ReadableByAll os.FileMode = 0o644
