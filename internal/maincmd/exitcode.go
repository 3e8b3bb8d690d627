package maincmd

// The standard BSD sysexits.h codes. Only a subset is reachable from the
// current command set (Usage, Dataerr, NoInput, Software, IoErr, NoPerm);
// the rest are kept as named constants for commands this CLI doesn't have
// yet, mirroring the original implementation's exit code enum.
const (
	Usage       = 64 // command line usage error
	Dataerr     = 65 // data format error
	NoInput     = 66 // cannot open input
	NoUser      = 67 // addressee unknown
	NoHost      = 68 // host name unknown
	Unavailable = 69 // service unavailable
	Software    = 70 // internal software error
	OsErr       = 71 // system error (e.g. can't fork)
	OsFile      = 72 // critical OS file missing
	CantCreat   = 73 // can't create (user) output file
	IoErr       = 74 // input/output error
	TempFail    = 75 // temp failure, user is invited to retry
	Protocol    = 76 // remote error in protocol
	NoPerm      = 77 // permission denied
	Config      = 78 // configuration error
)
