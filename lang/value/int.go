package value

import "strconv"

func (v Int) String() string { return strconv.FormatInt(int64(v), 10) }

func (v UInt) String() string { return strconv.FormatUint(uint64(v), 10) }
