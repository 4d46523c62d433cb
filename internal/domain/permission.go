package domain

// Permission names a single operation gated by role
type Permission string

const (
	PermReadWallet          Permission = "read_wallet"
	PermSelfDeposit         Permission = "self_deposit"
	PermSelfWithdraw        Permission = "self_withdraw"
	PermPeerTransfer        Permission = "peer_transfer"
	PermCashIn              Permission = "cash_in"
	PermCashOut             Permission = "cash_out"
	PermReadOwnTransactions Permission = "read_own_transactions"
	PermLookup              Permission = "lookup"
	PermModerate            Permission = "moderate"
	PermReadAll             Permission = "read_all"
)

// rolePermissions is the only place that decides what a role may do.
var rolePermissions = map[Role]map[Permission]bool{
	RoleStandard: {
		PermReadWallet:          true,
		PermSelfDeposit:         true,
		PermSelfWithdraw:        true,
		PermPeerTransfer:        true,
		PermReadOwnTransactions: true,
		PermLookup:              true,
	},
	RoleAgent: {
		PermReadWallet:          true,
		PermCashIn:              true,
		PermCashOut:             true,
		PermReadOwnTransactions: true,
		PermLookup:              true,
	},
	RoleAdmin: {
		PermReadWallet:          true,
		PermCashIn:              true,
		PermCashOut:             true,
		PermReadOwnTransactions: true,
		PermLookup:              true,
		PermModerate:            true,
		PermReadAll:             true,
	},
}

// Can reports whether the role grants p, ignoring approval state
func (r Role) Can(p Permission) bool {
	return rolePermissions[r][p]
}

// Authorize checks p against the role table. An agent holds none of its
// permissions until approved.
func Authorize(role Role, approved bool, p Permission) error {
	if !role.Can(p) {
		return Forbidden("role " + string(role) + " is not permitted to " + string(p))
	}
	if role == RoleAgent && !approved {
		return Forbidden("agent is not approved")
	}
	return nil
}
