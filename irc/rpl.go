package irc

import "strings"

// Numeric replies.
const (
	RplWelcome  = 1 // :Welcome message
	RplYourhost = 2 // :Your host is...
	RplCreated  = 3 // :This server was created...
	RplMyinfo   = 4 // <servername> <version> <umodes> <chan modes> <chan modes with a parameter>
	RplIsupport = 5 // 1*13<TOKEN[=value]> :are supported by this server

	RplStatscommands = 212 // <command> <count> [<byte count> <remote count>]
	RplEndofstats    = 219 // <stats letter> :End of /STATS report
	RplUmodeis       = 221 // <modes>
	RplStatsuptime   = 242 // :Server Up <days> days <hours>:<minutes>:<seconds>
	RplLuserclient   = 251 // :<int> users and <int> services on <int> servers
	RplLuserop       = 252 // <int> :operator(s) online
	RplLuserunknown  = 253 // <int> :unknown connection(s)
	RplLuserchannels = 254 // <int> :channels formed
	RplLuserme       = 255 // :I have <int> clients and <int> servers
	RplAdminme       = 256 // <server> :Admin info
	RplAdminloc1     = 257 // :<info>
	RplAdminloc2     = 258 // :<info>
	RplAdminemail    = 259 // :<info>
	RplLocalusers    = 265 // [<u> <m>] :Current local users <u>, max <m>
	RplGlobalusers   = 266 // [<u> <m>] :Current global users <u>, max <m>
	RplWhoiscertfp   = 276 // <nick> :has client certificate fingerprint <fingerprint>

	RplAway            = 301 // <nick> :<away message>
	RplUserhost        = 302 // :[<reply>{ <reply>}]
	RplUnaway          = 305 // :You are no longer marked as being away
	RplNowaway         = 306 // :You have been marked as being away
	RplWhoisregnick    = 307 // <nick> :has identified for this nick
	RplWhoisuser       = 311 // <nick> <user> <host> * :<realname>
	RplWhoisserver     = 312 // <nick> <server> :<server info>
	RplWhoisoperator   = 313 // <nick> :is an IRC operator
	RplWhowasuser      = 314 // <nick> <username> <host> * :<realname>
	RplEndofwho        = 315 // <name> :End of WHO list
	RplWhoisidle       = 317 // <nick> <integer> [<integer>] :seconds idle [, signon time]
	RplEndofwhois      = 318 // <nick> :End of WHOIS list
	RplWhoischannels   = 319 // <nick> :*( (@/+) <channel> " " )
	RplWhoisspecial    = 320 // <nick> :blah blah blah
	RplListstart       = 321 // Channel :Users  Name
	RplList            = 322 // <channel> <# of visible members> <topic>
	RplListend         = 323 // :End of list
	RplChannelmodeis   = 324 // <channel> <modes> <mode params>
	RplCreationTime    = 329 // <channel> <creationtime>
	RplWhoisaccount    = 330 // <nick> <account> :is logged in as
	RplNotopic         = 331 // <channel> :No topic set
	RplTopic           = 332 // <channel> <topic>
	RplTopicwhotime    = 333 // <channel> <nick> <setat>
	RplInvitelist      = 336 // <channel>
	RplEndofinvitelist = 337 // <channel> :End of invite list
	RplWhoisactually   = 338 // <nick> [<username>@<hostname>] [<ip>] :Is actually using host
	RplInviting        = 341 // <nick> <channel>
	RplInvexlist       = 346 // <channel> <mask>
	RplEndofinvexlist  = 347 // <channel> :End of Channel Invite Exception List
	RplExceptlist      = 348 // <channel> <exception mask>
	RplEndofexceptlist = 349 // <channel> :End of exception list
	RplVersion         = 351 // <version> <servername> :<comments>
	RplWhoreply        = 352 // <channel> <user> <host> <server> <nick> "H"/"G" ["*"] [("@"/"+")] :<hop count> <nick>
	RplNamreply        = 353 // <=/*/@> <channel> :1*(@/ /+user)
	RplWhospecialreply = 354 // [token] [channel] [user] [ip] [host] [server] [nick] [flags] [hopcount] [idle] [account] [oplevel] [:realname]
	RplLinks           = 364 // * <server> :<hopcount> <server info>
	RplEndoflinks      = 365 // * :End of /LINKS list
	RplEndofnames      = 366 // <channel> :End of names list
	RplBanlist         = 367 // <channel> <ban mask>
	RplEndofbanlist    = 368 // <channel> :End of ban list
	RplEndofwhowas     = 369 // <nick> :End of WHOWAS
	RplInfo            = 371 // :<info>
	RplMotd            = 372 // :- <text>
	RplEndofinfo       = 374 // :End of INFO
	RplMotdstart       = 375 // :- <servername> Message of the day -
	RplEndofmotd       = 376 // :End of MOTD command
	RplWhoishost       = 378 // <nick> :is connecting from *@localhost 127.0.0.1
	RplWhoismodes      = 379 // <nick> :is using modes +ailosw
	RplYoureoper       = 381 // :You are now an operator
	RplRehashing       = 382 // <config file> :Rehashing
	RplTime            = 391 // <servername> :<time in whatever format>
	RplHostHidden      = 396

	ErrNosuchnick       = 401 // <nick> :No such nick/channel
	ErrNosuchchannel    = 403 // <channel> :No such channel
	ErrCannotsendtochan = 404 // <channel> :Cannot send to channel
	ErrInvalidcapcmd    = 410 // <command> :Unknown cap command
	ErrNorecipient      = 411 // :No recipient given
	ErrNotexttosend     = 412 // :No text to send
	ErrInputtoolong     = 417 // :Input line was too long
	ErrUnknowncommand   = 421 // <command> :Unknown command
	ErrNomotd           = 422 // :MOTD file missing
	ErrNonicknamegiven  = 431 // :No nickname given
	ErrErroneusnickname = 432 // <nick> :Erroneous nickname
	ErrNicknameinuse    = 433 // <nick> :Nickname in use
	ErrUsernotinchannel = 441 // <nick> <channel> :User not in channel
	ErrNotonchannel     = 442 // <channel> :You're not on that channel
	ErrUseronchannel    = 443 // <user> <channel> :is already on channel
	ErrNotregistered    = 451 // :You have not registered
	ErrNeedmoreparams   = 461 // <command> :Not enough parameters
	ErrAlreadyregistred = 462 // :Already registered
	ErrPasswdmismatch   = 464 // :Password incorrect
	ErrYourebannedcreep = 465 // :You're banned from this server
	ErrKeyset           = 467 // <channel> :Channel key already set
	ErrChannelisfull    = 471 // <channel> :Cannot join channel (+l)
	ErrUnknownmode      = 472 // <char> :Don't know this mode for <channel>
	ErrInviteonlychan   = 473 // <channel> :Cannot join channel (+I)
	ErrBannedfromchan   = 474 // <channel> :Cannot join channel (+b)
	ErrBadchankey       = 475 // <channel> :Cannot join channel (+k)
	ErrNopriviledges    = 481 // :Permission Denied- You're not an IRC operator
	ErrChanoprivsneeded = 482 // <channel> :You're not an operator

	ErrUmodeunknownflag = 501 // :Unknown mode flag
	ErrUsersdontmatch   = 502 // :Can't change mode for other users

	RplWhoissecure = 671 // <nick> :is using a secure connection

	RplHelpstart    = 704 // <subject> :<first line of help section>
	RplHelptxt      = 705 // <subject> :<line of help text>
	RplEndofhelp    = 706 // <subject> :<last line of help text>
	RplMononline    = 730 // <nick> :target[!user@host][,target[!user@host]]*
	RplMonoffline   = 731 // <nick> :target[,target2]*
	RplMonlist      = 732 // <nick> :target[,target2]*
	RplEndofmonlist = 733 // <nick> :End of MONITOR list

	ErrMonlistisfull = 734 // <nick> <limit> <targets> :Monitor list is full.

	RplLoggedin  = 900 // <nick> <nick>!<ident>@<host> <account> :You are now logged in as <user>
	RplLoggedout = 901 // <nick> <nick>!<ident>@<host> :You are now logged out

	ErrNicklocked  = 902 // :You must use a nick assigned to you
	RplSaslsuccess = 903 // :SASL authentication successful

	ErrSaslfail    = 904 // :SASL authentication failed
	ErrSasltoolong = 905 // :SASL message too long
	ErrSaslaborted = 906 // :SASL authentication aborted
	ErrSaslalready = 907 // :You have already authenticated using SASL
	RplSaslmechs   = 908 // <mechanisms> :are available SASL mechanisms
)

var codeNames = map[int]string{
	RplWelcome:          "RPL_WELCOME",
	RplYourhost:         "RPL_YOURHOST",
	RplCreated:          "RPL_CREATED",
	RplMyinfo:           "RPL_MYINFO",
	RplIsupport:         "RPL_ISUPPORT",
	RplStatscommands:    "RPL_STATSCOMMANDS",
	RplEndofstats:       "RPL_ENDOFSTATS",
	RplUmodeis:          "RPL_UMODEIS",
	RplStatsuptime:      "RPL_STATSUPTIME",
	RplLuserclient:      "RPL_LUSERCLIENT",
	RplLuserop:          "RPL_LUSEROP",
	RplLuserunknown:     "RPL_LUSERUNKNOWN",
	RplLuserchannels:    "RPL_LUSERCHANNELS",
	RplLuserme:          "RPL_LUSERME",
	RplAdminme:          "RPL_ADMINME",
	RplAdminloc1:        "RPL_ADMINLOC1",
	RplAdminloc2:        "RPL_ADMINLOC2",
	RplAdminemail:       "RPL_ADMINEMAIL",
	RplLocalusers:       "RPL_LOCALUSERS",
	RplGlobalusers:      "RPL_GLOBALUSERS",
	RplWhoiscertfp:      "RPL_WHOISCERTFP",
	RplAway:             "RPL_AWAY",
	RplUserhost:         "RPL_USERHOST",
	RplUnaway:           "RPL_UNAWAY",
	RplNowaway:          "RPL_NOWAWAY",
	RplWhoisregnick:     "RPL_WHOISREGNICK",
	RplWhoisuser:        "RPL_WHOISUSER",
	RplWhoisserver:      "RPL_WHOISSERVER",
	RplWhoisoperator:    "RPL_WHOISOPERATOR",
	RplWhowasuser:       "RPL_WHOWASUSER",
	RplEndofwho:         "RPL_ENDOFWHO",
	RplWhoisidle:        "RPL_WHOISIDLE",
	RplEndofwhois:       "RPL_ENDOFWHOIS",
	RplWhoischannels:    "RPL_WHOISCHANNELS",
	RplWhoisspecial:     "RPL_WHOISSPECIAL",
	RplListstart:        "RPL_LISTSTART",
	RplList:             "RPL_LIST",
	RplListend:          "RPL_LISTEND",
	RplChannelmodeis:    "RPL_CHANNELMODEIS",
	RplCreationTime:     "RPL_CREATIONTIME",
	RplWhoisaccount:     "RPL_WHOISACCOUNT",
	RplNotopic:          "RPL_NOTOPIC",
	RplTopic:            "RPL_TOPIC",
	RplTopicwhotime:     "RPL_TOPICWHOTIME",
	RplInvitelist:       "RPL_INVITELIST",
	RplEndofinvitelist:  "RPL_ENDOFINVITELIST",
	RplWhoisactually:    "RPL_WHOISACTUALLY",
	RplInviting:         "RPL_INVITING",
	RplInvexlist:        "RPL_INVEXLIST",
	RplEndofinvexlist:   "RPL_ENDOFINVEXLIST",
	RplExceptlist:       "RPL_EXCEPTLIST",
	RplEndofexceptlist:  "RPL_ENDOFEXCEPTLIST",
	RplVersion:          "RPL_VERSION",
	RplWhoreply:         "RPL_WHOREPLY",
	RplNamreply:         "RPL_NAMREPLY",
	RplWhospecialreply:  "RPL_WHOSPECIALREPLY",
	RplLinks:            "RPL_LINKS",
	RplEndoflinks:       "RPL_ENDOFLINKS",
	RplEndofnames:       "RPL_ENDOFNAMES",
	RplBanlist:          "RPL_BANLIST",
	RplEndofbanlist:     "RPL_ENDOFBANLIST",
	RplEndofwhowas:      "RPL_ENDOFWHOWAS",
	RplInfo:             "RPL_INFO",
	RplMotd:             "RPL_MOTD",
	RplEndofinfo:        "RPL_ENDOFINFO",
	RplMotdstart:        "RPL_MOTDSTART",
	RplEndofmotd:        "RPL_ENDOFMOTD",
	RplWhoishost:        "RPL_WHOISHOST",
	RplWhoismodes:       "RPL_WHOISMODES",
	RplYoureoper:        "RPL_YOUREOPER",
	RplRehashing:        "RPL_REHASHING",
	RplTime:             "RPL_TIME",
	RplHostHidden:       "RPL_HOSTHIDDEN",
	ErrNosuchnick:       "ERR_NOSUCHNICK",
	ErrNosuchchannel:    "ERR_NOSUCHCHANNEL",
	ErrCannotsendtochan: "ERR_CANNOTSENDTOCHAN",
	ErrInvalidcapcmd:    "ERR_INVALIDCAPCMD",
	ErrNorecipient:      "ERR_NORECIPIENT",
	ErrNotexttosend:     "ERR_NOTEXTTOSEND",
	ErrInputtoolong:     "ERR_INPUTTOOLONG",
	ErrUnknowncommand:   "ERR_UNKNOWNCOMMAND",
	ErrNomotd:           "ERR_NOMOTD",
	ErrNonicknamegiven:  "ERR_NONICKNAMEGIVEN",
	ErrErroneusnickname: "ERR_ERRONEUSNICKNAME",
	ErrNicknameinuse:    "ERR_NICKNAMEINUSE",
	ErrUsernotinchannel: "ERR_USERNOTINCHANNEL",
	ErrNotonchannel:     "ERR_NOTONCHANNEL",
	ErrUseronchannel:    "ERR_USERONCHANNEL",
	ErrNotregistered:    "ERR_NOTREGISTERED",
	ErrNeedmoreparams:   "ERR_NEEDMOREPARAMS",
	ErrAlreadyregistred: "ERR_ALREADYREGISTRED",
	ErrPasswdmismatch:   "ERR_PASSWDMISMATCH",
	ErrYourebannedcreep: "ERR_YOUREBANNEDCREEP",
	ErrKeyset:           "ERR_KEYSET",
	ErrChannelisfull:    "ERR_CHANNELISFULL",
	ErrUnknownmode:      "ERR_UNKNOWNMODE",
	ErrInviteonlychan:   "ERR_INVITEONLYCHAN",
	ErrBannedfromchan:   "ERR_BANNEDFROMCHAN",
	ErrBadchankey:       "ERR_BADCHANKEY",
	ErrNopriviledges:    "ERR_NOPRIVILEDGES",
	ErrChanoprivsneeded: "ERR_CHANOPRIVSNEEDED",
	ErrUmodeunknownflag: "ERR_UMODEUNKNOWNFLAG",
	ErrUsersdontmatch:   "ERR_USERSDONTMATCH",
	RplWhoissecure:      "RPL_WHOISSECURE",
	RplHelpstart:        "RPL_HELPSTART",
	RplHelptxt:          "RPL_HELPTXT",
	RplEndofhelp:        "RPL_ENDOFHELP",
	RplMononline:        "RPL_MONONLINE",
	RplMonoffline:       "RPL_MONOFFLINE",
	RplMonlist:          "RPL_MONLIST",
	RplEndofmonlist:     "RPL_ENDOFMONLIST",
	ErrMonlistisfull:    "ERR_MONLISTISFULL",
	RplLoggedin:         "RPL_LOGGEDIN",
	RplLoggedout:        "RPL_LOGGEDOUT",
	ErrNicklocked:       "ERR_NICKLOCKED",
	RplSaslsuccess:      "RPL_SASLSUCCESS",
	ErrSaslfail:         "ERR_SASLFAIL",
	ErrSasltoolong:      "ERR_SASLTOOLONG",
	ErrSaslaborted:      "ERR_SASLABORTED",
	ErrSaslalready:      "ERR_SASLALREADY",
	RplSaslmechs:        "RPL_SASLMECHS",
}

// CodeName returns the textual name of a numeric reply, such as
// "RPL_WHOISUSER", or "" if the code is unknown.
func CodeName(code int) string {
	return codeNames[code]
}

// IsError reports whether code is a known error reply.
func IsError(code int) bool {
	return strings.HasPrefix(CodeName(code), "ERR_")
}
