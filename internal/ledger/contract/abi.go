package contract

// votingABI covers the admin-facing surface of the voting contract.
const votingABI = `[
  {"type":"function","name":"verifyUser","stateMutability":"nonpayable",
   "inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"scheduleElection","stateMutability":"nonpayable",
   "inputs":[{"name":"id","type":"uint256"},{"name":"name","type":"string"},
             {"name":"startTime","type":"uint256"},{"name":"endTime","type":"uint256"}],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"addCandidate","stateMutability":"nonpayable",
   "inputs":[{"name":"electionId","type":"uint256"},{"name":"name","type":"string"},
             {"name":"info","type":"string"}],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"electionCount","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getElection","stateMutability":"view",
   "inputs":[{"name":"id","type":"uint256"}],
   "outputs":[{"name":"name","type":"string"},{"name":"startTime","type":"uint256"},
              {"name":"endTime","type":"uint256"}]},
  {"type":"function","name":"candidateCount","stateMutability":"view",
   "inputs":[{"name":"electionId","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"getCandidate","stateMutability":"view",
   "inputs":[{"name":"electionId","type":"uint256"},{"name":"candidateId","type":"uint256"}],
   "outputs":[{"name":"name","type":"string"},{"name":"info","type":"string"}]}
]`

const (
	methodVerifyUser       = "verifyUser"
	methodScheduleElection = "scheduleElection"
	methodAddCandidate     = "addCandidate"
	methodElectionCount    = "electionCount"
	methodGetElection      = "getElection"
	methodCandidateCount   = "candidateCount"
	methodGetCandidate     = "getCandidate"
)
