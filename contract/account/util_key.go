package account

var (
	tagOwner   = byte(0x01)
	tagRouter  = byte(0x02)
	tagPasskey = byte(0x03)
)
