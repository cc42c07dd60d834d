package railway

// GraphQL query documents, matching the Railway API schema.

const queryMe = `
query me {
  me {
    id
    name
    email
    avatar
    isVerified
    registrationStatus
  }
}
`

const queryMeWithWorkspaces = `
query meWithWorkspaces {
  me {
    id
    name
    email
    workspaces {
      id
      name
      customer {
        id
        creditBalance
        currentUsage
        appliedCredits
        remainingUsageCreditBalance
        billingEmail
        state
        isTrialing
        isPrepaying
        trialDaysRemaining
      }
    }
  }
}
`

const queryProjects = `
query projects {
  projects {
    edges {
      node {
        id
        name
        description
        createdAt
        updatedAt
        environments {
          edges {
            node {
              id
              name
            }
          }
        }
        services {
          edges {
            node {
              id
              name
            }
          }
        }
      }
    }
  }
}
`

const queryDeployments = `
query deployments($projectId: String!) {
  project(id: $projectId) {
    services {
      edges {
        node {
          id
          name
          deployments(first: 1) {
            edges {
              node {
                id
                status
                createdAt
              }
            }
          }
        }
      }
    }
  }
}
`

const queryReferralInfo = `
query referralInfo($workspaceId: String!) {
  referralInfo(workspaceId: $workspaceId) {
    code
    id
    status
    referralStats {
      credited
      pending
    }
  }
}
`

const queryWorkspaceTemplates = `
query workspaceTemplates($workspaceId: String!) {
  workspaceTemplates(workspaceId: $workspaceId, first: 50) {
    edges {
      node {
        id
        name
        code
        totalPayout
      }
    }
  }
}
`

const queryTemplateMetrics = `
query templateMetrics($id: String!) {
  templateMetrics(id: $id) {
    activeDeployments
    deploymentsLast90Days
    earningsLast30Days
    earningsLast90Days
    eligibleForSupportBonus
    supportHealth
    templateHealth
    totalDeployments
    totalEarnings
  }
}
`
